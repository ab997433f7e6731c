package sheets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"wb_slots/internal/domain"
	"wb_slots/internal/domain/entity"
	"wb_slots/pkg/errcodes"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip

// Expected columns, zero-based within the read range:
// A id (optional), B barcode, C quantity, D warehouses (IDs or names,
// comma-separated, empty = any), E max coefficient, F valid from,
// G valid until, H owner chat ID, I bookable-only flag (optional).
const (
	colID = iota
	colBarcode
	colQuantity
	colWarehouses
	colMaxCoefficient
	colValidFrom
	colValidUntil
	colChatID
	colRequireUnload
)

type rowSchema struct {
	ID             string
	Barcode        string `validate:"required"`
	Quantity       int    `validate:"required,gt=0,lte=999999"`
	MaxCoefficient int    `validate:"gte=0"`
	ValidFrom      time.Time
	ValidUntil     time.Time
	ChatID         int64 `validate:"required"`
}

var dateLayouts = []string{time.DateOnly, "02.01.2006", "2.1.2006"} //nolint:gochecknoglobals

var sheetRangeRe = regexp.MustCompile(`^(?:[^!]+!)?[A-Z]+(\d+)`)

// rowOffset derives the 1-based sheet row of the first returned row from
// the configured read range, so log lines point at real spreadsheet rows.
func rowOffset(readRange string) int {
	m := sheetRangeRe.FindStringSubmatch(readRange)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return n
}

// ParseRow turns one spreadsheet row into a subscription. The returned
// error describes what exactly is wrong with the row.
func ParseRow(sheetRow int, row []any) (entity.Subscription, error) {
	schema := rowSchema{
		ID:      cell(row, colID),
		Barcode: cell(row, colBarcode),
	}

	var err error

	if schema.Quantity, err = parseInt(cell(row, colQuantity)); err != nil {
		return entity.Subscription{}, invalidRow("quantity", err)
	}

	if schema.MaxCoefficient, err = parseInt(cell(row, colMaxCoefficient)); err != nil {
		return entity.Subscription{}, invalidRow("max coefficient", err)
	}

	if schema.ValidFrom, err = parseDate(cell(row, colValidFrom)); err != nil {
		return entity.Subscription{}, invalidRow("valid from", err)
	}

	if schema.ValidUntil, err = parseDate(cell(row, colValidUntil)); err != nil {
		return entity.Subscription{}, invalidRow("valid until", err)
	}

	if schema.ChatID, err = strconv.ParseInt(cell(row, colChatID), 10, 64); err != nil {
		return entity.Subscription{}, invalidRow("chat id", err)
	}

	if err = validate.Struct(schema); err != nil {
		return entity.Subscription{}, domain.WrapError(err, errcodes.SubscriptionInvalid, "validate row")
	}

	if schema.ValidUntil.Before(schema.ValidFrom) {
		return entity.Subscription{}, domain.NewError(errcodes.SubscriptionInvalid, "valid until before valid from")
	}

	warehouseIDs, warehouseNames := parseWarehouses(cell(row, colWarehouses))

	id := schema.ID
	if id == "" {
		// The barcode keeps the identity stable when rows move around.
		id = fmt.Sprintf("row%d:%s", sheetRow, schema.Barcode)
	}

	return entity.Subscription{
		ID:             id,
		Barcode:        schema.Barcode,
		Quantity:       schema.Quantity,
		Warehouses:     warehouseIDs,
		WarehouseNames: warehouseNames,
		MaxCoefficient: schema.MaxCoefficient,
		ValidFrom:      schema.ValidFrom,
		ValidUntil:     schema.ValidUntil,
		OwnerChatID:    schema.ChatID,
		RequireUnload:  parseBool(cell(row, colRequireUnload)),
	}, nil
}

func invalidRow(field string, err error) error {
	return domain.WrapError(err, errcodes.SubscriptionInvalid, "bad "+field)
}

func cell(row []any, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
}

func parseInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return entity.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "да":
		return true
	default:
		return false
	}
}

// parseWarehouses splits the comma-separated warehouse cell into numeric
// IDs and names still to be resolved against the catalog.
func parseWarehouses(value string) ([]int64, []string) {
	if value == "" {
		return nil, nil
	}

	var (
		ids   []int64
		names []string
	)

	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if id, err := strconv.ParseInt(token, 10, 64); err == nil {
			ids = append(ids, id)
			continue
		}

		names = append(names, token)
	}

	return ids, names
}
