package constants

type contextKey string

const (
	PoolKey      contextKey = "pool"
	TxKey        contextKey = "tx"
	LoggerKey    contextKey = "logger"
	RequesterKey contextKey = "requester"
	RequestIDKey contextKey = "request_id"
)
