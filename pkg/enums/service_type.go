package enums

import "fmt"

// ServiceType records how an order is served to the customer.
type ServiceType string

const (
	ServiceTypeDelivery ServiceType = "delivery"
	ServiceTypeDineIn   ServiceType = "dinein"
)

var validServiceTypes = []ServiceType{
	ServiceTypeDelivery,
	ServiceTypeDineIn,
}

// String implements fmt.Stringer.
func (s ServiceType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceType.
func (s ServiceType) IsValid() bool {
	for _, candidate := range validServiceTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceType converts raw input into a ServiceType.
func ParseServiceType(value string) (ServiceType, error) {
	for _, candidate := range validServiceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service type %q", value)
}
