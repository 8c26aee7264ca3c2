package enum

// ── Order state machine (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "PENDING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// ── Service windows (CHECK constrained in DB) ──

const (
	ShiftLunch  = "LUNCH"
	ShiftDinner = "DINNER"
)

// ── Payment labels (CHECK constrained in DB) ──

const (
	PaymentMethodCash = "CASH"
	PaymentMethodCard = "CARD"
	PaymentMethodPix  = "PIX"
)

// ── Access categories for the shared-secret check ──

const (
	SecretCategoryBasic = "basic"
	SecretCategoryAdmin = "admin"
)

// Config variable names holding the stored secrets.
const (
	SecretVariableBasic = "basic_secret"
	SecretVariableAdmin = "admin_secret"
)
