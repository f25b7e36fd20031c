package domain

import "time"

// JobStatus is the status a driver reports for a job.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobAssigned  JobStatus = "ASSIGNED"
	JobPickedUp  JobStatus = "PICKED_UP"
	JobInTransit JobStatus = "IN_TRANSIT"
	JobDelivered JobStatus = "DELIVERED"
	JobFailed    JobStatus = "FAILED"
)

// driverTransitions is the set of status moves a driver is offered.
var driverTransitions = map[JobStatus][]JobStatus{
	JobPending:   {JobPickedUp},
	JobPickedUp:  {JobInTransit},
	JobAssigned:  {JobInTransit},
	JobInTransit: {JobDelivered},
}

// CanTransitionTo reports whether a driver may move a job from s to next.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range driverTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextDriverStatus returns the single action offered for s, if any.
func (s JobStatus) NextDriverStatus() (JobStatus, bool) {
	next := driverTransitions[s]
	if len(next) == 0 {
		return "", false
	}
	return next[0], true
}

// Job is a customer booking as the backend stores it.
type Job struct {
	ID                    int64       `json:"id"`
	JobNumber             int64       `json:"job_number,omitempty"`
	ServiceType           ServiceType `json:"service_type"`
	CargoDescription      string      `json:"cargo_description"`
	PickupAddress         string      `json:"pickup_address"`
	PickupCity            string      `json:"pickup_city"`
	PickupContactPerson   string      `json:"pickup_contact_person,omitempty"`
	PickupContactPhone    string      `json:"pickup_contact_phone,omitempty"`
	DeliveryAddress       string      `json:"delivery_address"`
	DeliveryCity          string      `json:"delivery_city"`
	DeliveryContactPerson string      `json:"delivery_contact_person,omitempty"`
	DeliveryContactPhone  string      `json:"delivery_contact_phone,omitempty"`
	RequestedPickupDate   time.Time   `json:"requested_pickup_date"`
	Status                string      `json:"status,omitempty"`
	CreatedAt             time.Time   `json:"created_at,omitempty"`
}

// DriverJob is a job as seen from the driver app.
type DriverJob struct {
	Job
	ShipmentID           int64     `json:"shipment_id,omitempty"`
	DriverStatus         JobStatus `json:"driver_status,omitempty"`
	ProofOfDeliveryImage string    `json:"proof_of_delivery_image,omitempty"`
}

// CurrentStatus returns the status the driver actions are keyed on.
func (j DriverJob) CurrentStatus() JobStatus {
	if j.DriverStatus != "" {
		return j.DriverStatus
	}
	return JobStatus(j.Status)
}

// Shipment is a transport leg assigned to a vehicle and driver.
type Shipment struct {
	ID                   int64     `json:"id"`
	Order                int64     `json:"order,omitempty"`
	Vehicle              *int64    `json:"vehicle"`
	Driver               *int64    `json:"driver"`
	Status               JobStatus `json:"status"`
	EstimatedDelivery    string    `json:"estimated_delivery_date,omitempty"`
	ProofOfDeliveryImage string    `json:"proof_of_delivery_image,omitempty"`
	CreatedAt            time.Time `json:"created_at,omitempty"`
}

// ShipmentPatch carries the fields the dashboard may change.
type ShipmentPatch struct {
	Vehicle           *int64     `json:"vehicle,omitempty"`
	Driver            *int64     `json:"driver,omitempty"`
	Status            *JobStatus `json:"status,omitempty"`
	EstimatedDelivery *string    `json:"estimated_delivery_date,omitempty"`
}

// Order is a customer's view of one of their bookings.
type Order struct {
	ID            int64       `json:"id"`
	JobNumber     int64       `json:"job_number,omitempty"`
	ServiceType   ServiceType `json:"service_type"`
	Status        string      `json:"status"`
	PickupCity    string      `json:"pickup_city"`
	DeliveryCity  string      `json:"delivery_city"`
	EstimatedCost Money       `json:"estimated_cost,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// StatusUpdate is the body of a driver status change.
type StatusUpdate struct {
	Status      JobStatus `json:"status"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
}

// StatusUpdateResult is the backend acknowledgement of a StatusUpdate.
type StatusUpdateResult struct {
	Status    string    `json:"status"`
	NewStatus JobStatus `json:"new_status"`
}

// ProofOfDelivery is the backend acknowledgement of an uploaded image.
type ProofOfDelivery struct {
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
}
