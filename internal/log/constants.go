package log

const (
	KeyAppName            = "app"
	KeyAmountTotal        = "amountTotal"
	KeyCart               = "cart"
	KeyCartID             = "cartId"
	KeyConfig             = "config"
	KeyEmail              = "email"
	KeyEventID            = "eventId"
	KeyEventType          = "eventType"
	KeyOrder              = "order"
	KeyOrderID            = "orderId"
	KeyPaymentStatus      = "paymentStatus"
	KeyProcess            = "process"
	KeyProductID          = "productId"
	KeyQuantity           = "quantity"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestID          = "requestId"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestProcessedAt = "requestProcessedAt"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeySessionID          = "sessionId"
	KeyTag                = "tag"
)
