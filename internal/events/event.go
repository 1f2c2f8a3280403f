package events

// HoldConfirmedEvent публикуется при превращении hold'а в подтвержденное
// бронирование. Содержит все данные, нужные внешней booking-подсистеме
// для создания постоянной записи без обращения к нашей БД.
type HoldConfirmedEvent struct {
	EventID          string  `json:"event_id"`
	HoldID           int64   `json:"hold_id"`
	CustomerName     string  `json:"customer_name"`
	CustomerEmail    string  `json:"customer_email"`
	CustomerPhone    string  `json:"customer_phone"`
	EventDate        string  `json:"event_date"` // YYYY-MM-DD
	TimeSlot         string  `json:"time_slot"`  // HH:MM
	StationID        int64   `json:"station_id"`
	AgreementIDs     []int64 `json:"agreement_ids"`
	PaymentReference string  `json:"payment_reference"`
	ConfirmedAt      string  `json:"confirmed_at"` // RFC3339
}
