package domain

import "encoding/json"

// JobType splits bookings into the two booking schemas.
type JobType string

const (
	JobResidential JobType = "RESIDENTIAL"
	JobCommercial  JobType = "COMMERCIAL"
)

// ServiceType is the service category picked in the booking form.
type ServiceType string

const (
	ServiceResidentialMoving ServiceType = "RESIDENTIAL_MOVING"
	ServiceSmallDeliveries   ServiceType = "SMALL_DELIVERIES"
	ServiceOfficeRelocation  ServiceType = "OFFICE_RELOCATION"
	ServicePalletDelivery    ServiceType = "PALLET_DELIVERY"
)

// BaseFee is added to every placeholder estimate.
const BaseFee Money = 5000

var serviceSurcharges = map[ServiceType]Money{
	ServiceResidentialMoving: 25000,
	ServiceSmallDeliveries:   5000,
	ServiceOfficeRelocation:  40000,
	ServicePalletDelivery:    15000,
}

var serviceJobTypes = map[ServiceType]JobType{
	ServiceResidentialMoving: JobResidential,
	ServiceSmallDeliveries:   JobResidential,
	ServiceOfficeRelocation:  JobCommercial,
	ServicePalletDelivery:    JobCommercial,
}

// Surcharge returns the fixed surcharge of a service category.
func (s ServiceType) Surcharge() (Money, bool) {
	m, ok := serviceSurcharges[s]
	return m, ok
}

// JobType returns the booking schema a service belongs to.
func (s ServiceType) JobType() JobType {
	return serviceJobTypes[s]
}

// Services lists the known categories in display order.
func Services() []ServiceType {
	return []ServiceType{
		ServiceResidentialMoving,
		ServiceSmallDeliveries,
		ServiceOfficeRelocation,
		ServicePalletDelivery,
	}
}

// BookingForm is the customer booking request. Field rules depend on JobType.
type BookingForm struct {
	JobType          JobType     `json:"job_type" validate:"required,oneof=RESIDENTIAL COMMERCIAL"`
	ServiceType      ServiceType `json:"service_type" validate:"required"`
	CargoDescription string      `json:"cargo_description" validate:"min=10"`

	RoomCount   int     `json:"room_count,omitempty"`
	WeightLbs   float64 `json:"weight_lbs,omitempty"`
	PalletCount int     `json:"pallet_count,omitempty"`
	IsHazardous bool    `json:"is_hazardous,omitempty"`
	BOLNumber   string  `json:"bol_number,omitempty"`

	PickupAddress       string `json:"pickup_address" validate:"min=5"`
	PickupCity          string `json:"pickup_city" validate:"min=2"`
	PickupContactPerson string `json:"pickup_contact_person" validate:"min=2"`
	PickupContactPhone  string `json:"pickup_contact_phone" validate:"min=10"`

	DeliveryAddress       string `json:"delivery_address" validate:"min=5"`
	DeliveryCity          string `json:"delivery_city" validate:"min=2"`
	DeliveryContactPerson string `json:"delivery_contact_person" validate:"min=2"`
	DeliveryContactPhone  string `json:"delivery_contact_phone" validate:"min=10"`

	RequestedPickupDate string `json:"requested_pickup_date" validate:"pickupdate"`
}

// QuoteRequest is the body sent to the server-side calculator.
type QuoteRequest struct {
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	JobType     JobType     `json:"job_type"`
	ServiceType ServiceType `json:"service_type"`
	Weight      float64     `json:"weight,omitempty"`
	RoomCount   int         `json:"room_count,omitempty"`
	PalletCount int         `json:"pallet_count,omitempty"`
}

// QuoteRequest derives the calculator input from a form. Residential jobs
// send rooms, commercial jobs send weight and pallets.
func (f BookingForm) QuoteRequest() QuoteRequest {
	q := QuoteRequest{
		Origin:      f.PickupCity,
		Destination: f.DeliveryCity,
		JobType:     f.JobType,
		ServiceType: f.ServiceType,
	}
	if f.JobType == JobResidential {
		q.RoomCount = f.RoomCount
	} else {
		q.Weight = f.WeightLbs
		q.PalletCount = f.PalletCount
	}
	return q
}

// Quote is a price for a booking. Fallback is set when the server
// calculator could not be reached and the placeholder estimate was used.
type Quote struct {
	EstimatedPrice Money             `json:"estimated_price"`
	ServiceType    ServiceType       `json:"service_type"`
	JobType        JobType           `json:"job_type,omitempty"`
	Distance       json.Number       `json:"distance,omitempty"`
	PricingModel   string            `json:"pricing_model_recommendation,omitempty"`
	EstimatedDays  string            `json:"estimated_days,omitempty"`
	Breakdown      map[string]string `json:"breakdown,omitempty"`
	Fallback       bool              `json:"fallback"`
}

// BookingConfirmation is the backend reply to a submitted booking.
type BookingConfirmation struct {
	ID        int64  `json:"id"`
	JobNumber int64  `json:"job_number,omitempty"`
	Message   string `json:"message,omitempty"`
}
