package domain

import "time"

// ConditionStatus grades an inspection point on the engine checklist.
type ConditionStatus string

const (
	ConditionNormal   ConditionStatus = "NORMAL"
	ConditionAbnormal ConditionStatus = "ABNORMAL"
)

// FilterStatus grades air and fuel filter condition.
type FilterStatus string

const (
	FilterClean    FilterStatus = "CLEAN"
	FilterDirty    FilterStatus = "DIRTY"
	FilterReplaced FilterStatus = "REPLACED"
)

// SparePart is one consumed part line on a service report.
type SparePart struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Qty    int    `json:"qty"`
	Origin string `json:"origin"`
}

// Checklist is the fixed-shape engine inspection record.
type Checklist struct {
	OilPressureBefore string          `json:"oil_pressure_before"`
	OilPressureAfter  string          `json:"oil_pressure_after"`
	Temperature       string          `json:"temperature"`
	SmokeStatus       ConditionStatus `json:"smoke_status"`
	IntakeStatus      ConditionStatus `json:"intake_status"`
	NoiseStatus       ConditionStatus `json:"noise_status"`
	BatteryVoltage    string          `json:"battery_voltage"`
	RadiatorLevel     string          `json:"radiator_level"`
	AirFilterStatus   FilterStatus    `json:"air_filter_status"`
	FuelFilterStatus  FilterStatus    `json:"fuel_filter_status"`
}

// EvidenceChecklist tracks which mandatory evidence photos were taken.
type EvidenceChecklist struct {
	UnitPhoto       bool `json:"unit_photo"`
	ChassisPhoto    bool `json:"chassis_photo"`
	HourMeterPhoto  bool `json:"hour_meter_photo"`
	DamagePhoto     bool `json:"damage_photo"`
	SparePartPhoto  bool `json:"spare_part_photo"`
	AfterRepairShot bool `json:"after_repair_shot"`
}

// ServiceReport is the structured work record embedded in a ticket.
// It exists only once the ticket has entered IN_PROGRESS.
type ServiceReport struct {
	IsWarranty       bool              `json:"is_warranty"`
	StartTime        string            `json:"start_time"`
	FinishTime       string            `json:"finish_time"`
	DiagnosisSymptom string            `json:"diagnosis_symptom"`
	DiagnosisCause   string            `json:"diagnosis_cause"`
	SpareParts       []SparePart       `json:"spare_parts"`
	Checklist        Checklist         `json:"checklist"`
	Evidence         EvidenceChecklist `json:"evidence"`
}

// NewServiceReport returns the default-initialized report attached when a
// ticket first enters IN_PROGRESS. StartTime captures the local wall clock.
func NewServiceReport(now time.Time) *ServiceReport {
	return &ServiceReport{
		StartTime:  now.Format("15:04"),
		SpareParts: []SparePart{},
	}
}
