package domain

import "time"

// SectionPatch is a partial update for a single-record section. Nil fields are
// left untouched when the patch is applied.
type SectionPatch interface {
	Step() StepKey
}

// Ptr returns a pointer to v. Patches use it to mark a field as present.
func Ptr[T any](v T) *T {
	return &v
}

// GeneralPatch updates the general section.
type GeneralPatch struct {
	RentalType *RentalType `json:"rentalType,omitempty"`
	RentalDate *string     `json:"rentalDate,omitempty"`
	Manager    *Manager    `json:"manager,omitempty"`
	Tenants    *[]Tenant   `json:"tenants,omitempty"`
}

func (GeneralPatch) Step() StepKey { return StepGeneral }

// ApplyTo shallow-merges the patch into target.
func (p GeneralPatch) ApplyTo(target General) General {
	if p.RentalType != nil {
		target.RentalType = *p.RentalType
	}
	if p.RentalDate != nil {
		target.RentalDate = *p.RentalDate
	}
	if p.Manager != nil {
		target.Manager = *p.Manager
	}
	if p.Tenants != nil {
		target.Tenants = *p.Tenants
	}
	return target.clone()
}

// PropertyPatch updates the property section.
type PropertyPatch struct {
	SelectedAddress    *string       `json:"selectedAddress,omitempty"`
	CustomAddress      *Address      `json:"customAddress,omitempty"`
	PropertyType       *string       `json:"propertyType,omitempty"`
	CustomPropertyType *string       `json:"customPropertyType,omitempty"`
	SelectedFloors     *[]string     `json:"selectedFloors,omitempty"`
	Designations       *Designations `json:"designations,omitempty"`
}

func (PropertyPatch) Step() StepKey { return StepProperty }

func (p PropertyPatch) ApplyTo(target Property) Property {
	if p.SelectedAddress != nil {
		target.SelectedAddress = *p.SelectedAddress
	}
	if p.CustomAddress != nil {
		target.CustomAddress = p.CustomAddress
	}
	if p.PropertyType != nil {
		target.PropertyType = *p.PropertyType
	}
	if p.CustomPropertyType != nil {
		target.CustomPropertyType = *p.CustomPropertyType
	}
	if p.SelectedFloors != nil {
		target.SelectedFloors = *p.SelectedFloors
	}
	if p.Designations != nil {
		target.Designations = p.Designations
	}
	return target.clone()
}

// ConditionPatch updates the condition section.
type ConditionPatch struct {
	OverallCondition      *string   `json:"overallCondition,omitempty"`
	CleanlinessConditions *[]string `json:"cleanlinessConditions,omitempty"`
	Defects               *[]Defect `json:"defects,omitempty"`
}

func (ConditionPatch) Step() StepKey { return StepCondition }

func (p ConditionPatch) ApplyTo(target Condition) Condition {
	if p.OverallCondition != nil {
		target.OverallCondition = *p.OverallCondition
	}
	if p.CleanlinessConditions != nil {
		target.CleanlinessConditions = *p.CleanlinessConditions
	}
	if p.Defects != nil {
		target.Defects = *p.Defects
	}
	return target.clone()
}

// SchedulingPatch updates the scheduling section.
type SchedulingPatch struct {
	ScheduledDate     *string   `json:"scheduledDate,omitempty"`
	ScheduledTime     *string   `json:"scheduledTime,omitempty"`
	EstimatedDuration *int      `json:"estimatedDuration,omitempty"`
	Location          *string   `json:"location,omitempty"`
	ParticipantNames  *[]string `json:"participantNames,omitempty"`
	ReminderSet       *bool     `json:"reminderSet,omitempty"`
	ReminderDate      *string   `json:"reminderDate,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
}

func (SchedulingPatch) Step() StepKey { return StepScheduling }

func (p SchedulingPatch) ApplyTo(target Scheduling) Scheduling {
	if p.ScheduledDate != nil {
		target.ScheduledDate = *p.ScheduledDate
	}
	if p.ScheduledTime != nil {
		target.ScheduledTime = *p.ScheduledTime
	}
	if p.EstimatedDuration != nil {
		target.EstimatedDuration = *p.EstimatedDuration
	}
	if p.Location != nil {
		target.Location = *p.Location
	}
	if p.ParticipantNames != nil {
		target.ParticipantNames = cloneStrings(*p.ParticipantNames)
	}
	if p.ReminderSet != nil {
		target.ReminderSet = *p.ReminderSet
	}
	if p.ReminderDate != nil {
		target.ReminderDate = *p.ReminderDate
	}
	if p.Notes != nil {
		target.Notes = *p.Notes
	}
	return target
}

// SignaturesPatch updates the signatures section.
type SignaturesPatch struct {
	Date     *string            `json:"date,omitempty"`
	Location *string            `json:"location,omitempty"`
	Landlord *Signature         `json:"landlord,omitempty"`
	Tenants  *[]TenantSignature `json:"tenants,omitempty"`
}

func (SignaturesPatch) Step() StepKey { return StepSignatures }

func (p SignaturesPatch) ApplyTo(target Signatures) Signatures {
	if p.Date != nil {
		target.Date = *p.Date
	}
	if p.Location != nil {
		target.Location = *p.Location
	}
	if p.Landlord != nil {
		target.Landlord = *p.Landlord
	}
	if p.Tenants != nil {
		target.Tenants = *p.Tenants
	}
	return target.clone()
}

// ItemPatch is a partial update for one element of a list section. Item
// identifiers are not patchable.
type ItemPatch[T any] interface {
	ApplyTo(T) T
}

type MeterPatch struct {
	ReadingDate         *string   `json:"readingDate,omitempty"`
	MeterType           *string   `json:"meterType,omitempty"`
	CustomMeterType     *string   `json:"customMeterType,omitempty"`
	MeterLocation       *string   `json:"meterLocation,omitempty"`
	CustomMeterLocation *string   `json:"customMeterLocation,omitempty"`
	MeterNumber         *string   `json:"meterNumber,omitempty"`
	MeterReading        *string   `json:"meterReading,omitempty"`
	Photos              *[]string `json:"photos,omitempty"`
}

func (p MeterPatch) ApplyTo(m Meter) Meter {
	setString(&m.ReadingDate, p.ReadingDate)
	setString(&m.MeterType, p.MeterType)
	setString(&m.CustomMeterType, p.CustomMeterType)
	setString(&m.MeterLocation, p.MeterLocation)
	setString(&m.CustomMeterLocation, p.CustomMeterLocation)
	setString(&m.MeterNumber, p.MeterNumber)
	setString(&m.MeterReading, p.MeterReading)
	if p.Photos != nil {
		m.Photos = cloneStrings(*p.Photos)
	}
	return m
}

type KeyPatch struct {
	Type       *string `json:"type,omitempty"`
	CustomType *string `json:"customType,omitempty"`
	Quantity   *string `json:"quantity,omitempty"`
}

func (p KeyPatch) ApplyTo(k Key) Key {
	setString(&k.Type, p.Type)
	setString(&k.CustomType, p.CustomType)
	setString(&k.Quantity, p.Quantity)
	return k
}

type PhotoPatch struct {
	Room        *string    `json:"room,omitempty"`
	CustomRoom  *string    `json:"customRoom,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	UploadedAt  *time.Time `json:"uploadedAt,omitempty"`
}

func (p PhotoPatch) ApplyTo(ph Photo) Photo {
	setString(&ph.Room, p.Room)
	setString(&ph.CustomRoom, p.CustomRoom)
	setString(&ph.Description, p.Description)
	setString(&ph.ImageURL, p.ImageURL)
	if p.UploadedAt != nil {
		ph.UploadedAt = cloneTime(p.UploadedAt)
	}
	return ph
}

type AgreementPatch struct {
	Subject     *string `json:"subject,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p AgreementPatch) ApplyTo(a Agreement) Agreement {
	setString(&a.Subject, p.Subject)
	setString(&a.Description, p.Description)
	return a
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
