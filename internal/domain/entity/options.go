package entity

// MaxOptionItems caps one acceptance-options request.
const MaxOptionItems = 5000

// OptionItem is one (barcode, quantity) pair of an acceptance-options
// request. The API takes up to 5000 of them per call.
type OptionItem struct {
	Barcode  string
	Quantity int
}

// OptionError is a per-item failure inside an otherwise successful
// options response (e.g. an unknown barcode). It never fails the batch.
type OptionError struct {
	Title  string
	Detail string
}

// AcceptanceOption is the per-barcode eligibility answer: which warehouses
// accept the product and in what packaging.
type AcceptanceOption struct {
	Barcode    string
	Warehouses []WarehouseOption
	Err        *OptionError
}

func (o AcceptanceOption) IsError() bool {
	return o.Err != nil
}

// WarehouseFor returns the option entry for a warehouse, if the product
// can ship there at all.
func (o AcceptanceOption) WarehouseFor(warehouseID int64) (WarehouseOption, bool) {
	for _, w := range o.Warehouses {
		if w.WarehouseID == warehouseID {
			return w, true
		}
	}
	return WarehouseOption{}, false
}

// WarehouseOption says which box types one warehouse accepts for the
// requested barcode and quantity.
type WarehouseOption struct {
	WarehouseID   int64
	CanBox        bool
	CanMonopallet bool
	CanSupersafe  bool
}

// Accepts reports whether the warehouse takes the given packaging. Unknown
// box types (QR and future ones) are not gated by the options feed.
func (w WarehouseOption) Accepts(boxType BoxType) bool {
	switch boxType {
	case BoxTypeBox:
		return w.CanBox
	case BoxTypeMonopallet:
		return w.CanMonopallet
	case BoxTypeSupersafe:
		return w.CanSupersafe
	default:
		return w.AcceptsAny()
	}
}

func (w WarehouseOption) AcceptsAny() bool {
	return w.CanBox || w.CanMonopallet || w.CanSupersafe
}
