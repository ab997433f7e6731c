package wildberries

import (
	"fmt"
	"time"

	"wb_slots/internal/domain/entity"
)

type warehouseSchema struct {
	ID              int64  `json:"ID"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	WorkTime        string `json:"workTime"`
	AcceptsQR       bool   `json:"acceptsQR"`
	IsActive        bool   `json:"isActive"`
	IsTransitActive bool   `json:"isTransitActive"`
}

func (s warehouseSchema) toDomain() entity.Warehouse {
	return entity.Warehouse{
		ID:              s.ID,
		Name:            s.Name,
		Address:         s.Address,
		WorkTime:        s.WorkTime,
		AcceptsQR:       s.AcceptsQR,
		IsActive:        s.IsActive,
		IsTransitActive: s.IsTransitActive,
	}
}

type coefficientSchema struct {
	Date                    string  `json:"date"`
	Coefficient             float64 `json:"coefficient"`
	WarehouseID             int64   `json:"warehouseID"`
	WarehouseName           string  `json:"warehouseName"`
	AllowUnload             bool    `json:"allowUnload"`
	BoxTypeName             string  `json:"boxTypeName"`
	BoxTypeID               int     `json:"boxTypeID"`
	StorageCoef             *string `json:"storageCoef"`
	DeliveryCoef            *string `json:"deliveryCoef"`
	DeliveryBaseLiter       *string `json:"deliveryBaseLiter"`
	DeliveryAdditionalLiter *string `json:"deliveryAdditionalLiter"`
	StorageBaseLiter        *string `json:"storageBaseLiter"`
	StorageAdditionalLiter  *string `json:"storageAdditionalLiter"`
	IsSortingCenter         bool    `json:"isSortingCenter"`
}

func (s coefficientSchema) toDomain() (entity.Slot, error) {
	date, err := parseFeedDate(s.Date)
	if err != nil {
		return entity.Slot{}, fmt.Errorf("parse date %q: %w", s.Date, err)
	}

	return entity.Slot{
		Date:            date,
		Coefficient:     int(s.Coefficient),
		WarehouseID:     s.WarehouseID,
		WarehouseName:   s.WarehouseName,
		AllowUnload:     s.AllowUnload,
		BoxTypeID:       entity.BoxType(s.BoxTypeID),
		BoxTypeName:     s.BoxTypeName,
		IsSortingCenter: s.IsSortingCenter,
	}, nil
}

// The feed has been seen with both full RFC 3339 timestamps and bare dates.
func parseFeedDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return entity.DateOnly(t), nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}

	return entity.DateOnly(t), nil
}

type optionItemSchema struct {
	Quantity int    `json:"quantity"`
	Barcode  string `json:"barcode"`
}

type optionsResponseSchema struct {
	Result    []optionResultSchema `json:"result"`
	RequestID string               `json:"requestId"`
}

type optionResultSchema struct {
	Barcode    string                  `json:"barcode"`
	Warehouses []optionWarehouseSchema `json:"warehouses"`
	IsError    bool                    `json:"isError"`
	Error      *optionErrorSchema      `json:"error"`
}

type optionErrorSchema struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type optionWarehouseSchema struct {
	WarehouseID   int64 `json:"warehouseID"`
	CanBox        bool  `json:"canBox"`
	CanMonopallet bool  `json:"canMonopallet"`
	CanSupersafe  bool  `json:"canSupersafe"`
}

func (s optionResultSchema) toDomain() entity.AcceptanceOption {
	option := entity.AcceptanceOption{
		Barcode:    s.Barcode,
		Warehouses: make([]entity.WarehouseOption, 0, len(s.Warehouses)),
	}

	if s.IsError || s.Error != nil {
		option.Err = &entity.OptionError{}
		if s.Error != nil {
			option.Err.Title = s.Error.Title
			option.Err.Detail = s.Error.Detail
		}
		return option
	}

	for _, w := range s.Warehouses {
		option.Warehouses = append(option.Warehouses, entity.WarehouseOption{
			WarehouseID:   w.WarehouseID,
			CanBox:        w.CanBox,
			CanMonopallet: w.CanMonopallet,
			CanSupersafe:  w.CanSupersafe,
		})
	}

	return option
}
