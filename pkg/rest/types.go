package rest

// CycleSummary is the status view of the most recent polling cycle.
type CycleSummary struct {
	StartedAt     string `json:"startedAt"`
	FinishedAt    string `json:"finishedAt"`
	DurationMS    int64  `json:"durationMs"`
	Subscriptions int    `json:"subscriptions"`
	SlotsSeen     int    `json:"slotsSeen"`
	Matched       int    `json:"matched"`
	Notified      int    `json:"notified"`
	Duplicates    int    `json:"duplicates"`
	Errors        int    `json:"errors"`
	Pruned        int64  `json:"pruned"`
}

type Status struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	LastCycle *CycleSummary `json:"lastCycle,omitempty"`
}

type Warehouse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Address         string `json:"address,omitempty"`
	WorkTime        string `json:"workTime,omitempty"`
	AcceptsQR       bool   `json:"acceptsQr"`
	IsActive        bool   `json:"isActive"`
	IsTransitActive bool   `json:"isTransitActive"`
}

type CheckRequest struct {
	Barcode     string `json:"barcode" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0,lte=999999"`
	WarehouseID *int64 `json:"warehouseId,omitempty"`
}

type CheckWarehouse struct {
	WarehouseID   int64 `json:"warehouseId"`
	CanBox        bool  `json:"canBox"`
	CanMonopallet bool  `json:"canMonopallet"`
	CanSupersafe  bool  `json:"canSupersafe"`
}

type CheckResult struct {
	Barcode    string           `json:"barcode"`
	Error      string           `json:"error,omitempty"`
	Warehouses []CheckWarehouse `json:"warehouses"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
