package events

// Topics emitted by the service record factory.
const (
	TopicWashServiceCreated     = "wash_service.created"
	TopicWashServiceCompleted   = "wash_service.completed"
	TopicLoyaltyFreeWashGranted = "loyalty.free_wash_granted"
)

// DefaultTopics returns the topics handed to background jobs.
func DefaultTopics() []string {
	return []string{
		TopicWashServiceCreated,
		TopicWashServiceCompleted,
		TopicLoyaltyFreeWashGranted,
	}
}

// Known reports whether topic is one the car wash emits.
func Known(topic string) bool {
	switch topic {
	case TopicWashServiceCreated, TopicWashServiceCompleted, TopicLoyaltyFreeWashGranted:
		return true
	}
	return false
}

// WashPayload is the body of wash_service.created and wash_service.completed.
// Prices are minor units.
type WashPayload struct {
	ServiceID       string `json:"serviceId"`
	CustomerID      string `json:"customerId"`
	ServiceType     string `json:"serviceType"`
	BasePrice       int64  `json:"basePrice"`
	FinalPrice      int64  `json:"finalPrice"`
	DiscountPercent int    `json:"discountPercent"`
}

// FreeWashPayload is the body of loyalty.free_wash_granted.
type FreeWashPayload struct {
	CustomerID       string `json:"customerId"`
	ServiceID        string `json:"serviceId"`
	ServiceType      string `json:"serviceType"`
	FreeServicesUsed int    `json:"freeServicesUsed"`
}
