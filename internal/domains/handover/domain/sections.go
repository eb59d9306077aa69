package domain

import "time"

// RentalType tells whether the protocol documents a move-in or a move-out.
type RentalType string

const (
	RentalStart RentalType = "start"
	RentalEnd   RentalType = "end"
)

// Address is a postal address used by tenants, managers and custom properties.
type Address struct {
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
}

// BankDetails holds a tenant's refund account.
type BankDetails struct {
	IBAN     string `json:"iban"`
	BIC      string `json:"bic"`
	BankName string `json:"bankName"`
}

// Tenant is a party moving in or out.
type Tenant struct {
	ID            int64        `json:"id"`
	Type          string       `json:"type"`
	Title         string       `json:"title,omitempty"`
	FirstName     string       `json:"firstName,omitempty"`
	LastName      string       `json:"lastName,omitempty"`
	CompanyName   string       `json:"companyName,omitempty"`
	ContactPerson string       `json:"contactPerson,omitempty"`
	Address       *Address     `json:"address,omitempty"`
	Phone         string       `json:"phone"`
	Email         string       `json:"email"`
	Present       string       `json:"present"`
	BankDetails   *BankDetails `json:"bankDetails,omitempty"`
}

// ManagerData describes a manager or owner entered by hand instead of picked from templates.
type ManagerData struct {
	Type        string  `json:"type"`
	Title       string  `json:"title,omitempty"`
	FirstName   string  `json:"firstName,omitempty"`
	LastName    string  `json:"lastName,omitempty"`
	CompanyName string  `json:"companyName,omitempty"`
	Address     Address `json:"address"`
}

// Manager identifies the landlord side of the handover.
type Manager struct {
	Type       string       `json:"type"`
	SelectedID string       `json:"selectedId"`
	CustomData *ManagerData `json:"customData,omitempty"`
}

// General is the first wizard step.
type General struct {
	RentalType RentalType `json:"rentalType"`
	RentalDate string     `json:"rentalDate"`
	Manager    Manager    `json:"manager"`
	Tenants    []Tenant   `json:"tenants"`
}

// Designations carries unit labels printed on the protocol.
type Designations struct {
	Wohneinheit    string `json:"wohneinheit,omitempty"`
	Stellplatz     string `json:"stellplatz,omitempty"`
	Gewerbeeinheit string `json:"gewerbeeinheit,omitempty"`
}

// Property describes the rental object.
type Property struct {
	SelectedAddress    string        `json:"selectedAddress"`
	CustomAddress      *Address      `json:"customAddress,omitempty"`
	PropertyType       string        `json:"propertyType"`
	CustomPropertyType string        `json:"customPropertyType,omitempty"`
	SelectedFloors     []string      `json:"selectedFloors"`
	Designations       *Designations `json:"designations,omitempty"`
}

// Defect is a damage noted during the inspection.
type Defect struct {
	ID         int64    `json:"id"`
	Room       string   `json:"room"`
	CustomRoom string   `json:"customRoom,omitempty"`
	Notes      string   `json:"notes"`
	Photos     []string `json:"photos,omitempty"`
}

// Condition summarises the state of the unit.
type Condition struct {
	OverallCondition      string   `json:"overallCondition"`
	CleanlinessConditions []string `json:"cleanlinessConditions"`
	Defects               []Defect `json:"defects"`
}

// Scheduling holds the appointment for the handover. Dates are kept as entered so a
// malformed value can be detected by consumers instead of failing on decode.
type Scheduling struct {
	ScheduledDate     string   `json:"scheduledDate,omitempty"`
	ScheduledTime     string   `json:"scheduledTime,omitempty"`
	EstimatedDuration int      `json:"estimatedDuration,omitempty"`
	Location          string   `json:"location,omitempty"`
	ParticipantNames  []string `json:"participantNames,omitempty"`
	ReminderSet       bool     `json:"reminderSet"`
	ReminderDate      string   `json:"reminderDate,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// Signature is one signing party.
type Signature struct {
	Name         string     `json:"name"`
	SignatureURL string     `json:"signatureUrl,omitempty"`
	SignedAt     *time.Time `json:"signedAt,omitempty"`
}

// TenantSignature links a signature to a tenant of the general step.
type TenantSignature struct {
	Signature
	TenantID int64 `json:"tenantId"`
}

// Signatures is the final wizard step.
type Signatures struct {
	Date     string            `json:"date"`
	Location string            `json:"location"`
	Landlord Signature         `json:"landlord"`
	Tenants  []TenantSignature `json:"tenants"`
}
