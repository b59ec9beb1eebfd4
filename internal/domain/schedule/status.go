package schedule

// Status codes the engine resolves through the per-tenant lookup
// table. Only the codes matter here; the numeric ids behind them are
// tenant-local and opaque.
const (
	StatusCodeBooked    = "booked"
	StatusCodeCompleted = "completed"
	StatusCodeCancelled = "cancelled"
	StatusCodeNoShow    = "no_show"
)

// SeededStatuses is the set of codes created for a new tenant.
var SeededStatuses = map[string]string{
	StatusCodeBooked:    "Booked",
	StatusCodeCompleted: "Completed",
	StatusCodeCancelled: "Cancelled",
	StatusCodeNoShow:    "No-show",
}
