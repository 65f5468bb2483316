package domain

// OrganisationCategory classifies an organisation unit.
type OrganisationCategory string

const (
	OrgCategoryDepartment OrganisationCategory = "department"
	OrgCategoryWarehouse  OrganisationCategory = "warehouse"
	OrgCategoryArchive    OrganisationCategory = "archive"
	OrgCategoryVendor     OrganisationCategory = "vendor"
)

// AssetStatus is the lifecycle status of an asset.
type AssetStatus string

const (
	StatusActive  AssetStatus = "active"
	StatusSpare   AssetStatus = "spare"
	StatusRepair  AssetStatus = "repair"
	StatusRetired AssetStatus = "retired"
)

// OperationState tracks the operational condition of an asset independently
// of its lifecycle status.
type OperationState string

const (
	OperationNormal         OperationState = "normal"
	OperationIncident       OperationState = "incident"
	OperationRepair         OperationState = "repair"
	OperationDecommissioned OperationState = "decommissioned"
)

// RelationType is the kind of a directed parent -> child asset link.
type RelationType string

const (
	RelationAttachedTo   RelationType = "attached_to"
	RelationPeripheralOf RelationType = "peripheral_of"
)

// EventAction is the kind of an audit trail entry.
type EventAction string

const (
	EventCreated           EventAction = "created"
	EventAssignmentStarted EventAction = "assignment_started"
	EventAssignmentEnded   EventAction = "assignment_ended"
	EventStatusChanged     EventAction = "status_changed"
	EventLocationChanged   EventAction = "location_changed"
	EventNote              EventAction = "note"
)
