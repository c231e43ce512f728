package plan

// Cell metadata, rows and alerts produced by one simulation run. All maps are
// keyed by composite "date|id" strings built with cellKey.

// Severity and warn markers for inventory cells.
const (
	SeverityFull     = "full"
	SeverityStockout = "stockout"
	WarnHigh75       = "high75"
)

// Equipment cell sources.
const (
	SourceActual = "actual"
	SourcePlan   = "plan"
	SourceNone   = "none"
)

// Constraint describes why an equipment unit produced less than requested.
type Constraint struct {
	Type      string  `json:"type"`
	Reason    string  `json:"reason"`
	Requested float64 `json:"requested"`
	Used      float64 `json:"used"`
}

// EquipmentCell is the per-(date,equipment) metadata: where the value came
// from, the planned status, the dominant product and any binding constraint.
type EquipmentCell struct {
	Source       string      `json:"source"`
	Status       string      `json:"status"`
	ProductID    string      `json:"productId"`
	TotalQty     float64     `json:"totalQty"`
	MultiProduct bool        `json:"multiProduct,omitempty"`
	Constraint   *Constraint `json:"constraint,omitempty"`
}

// InventoryCell is the per-(date,storage) alert metadata. Emitted only when a
// severity or warn marker is set.
type InventoryCell struct {
	Severity    string  `json:"severity,omitempty"`
	Warn        string  `json:"warn,omitempty"`
	EOD         float64 `json:"eod"`
	BOD         float64 `json:"bod"`
	MaxCap      float64 `json:"maxCap,omitempty"`
	StorageID   string  `json:"storageId"`
	StorageName string  `json:"storageName"`
	Reason      string  `json:"reason,omitempty"`
	FacilityID  string  `json:"facilityId"`
}

// Alert is one horizon-wide alert entry, grouped by date in the summary.
type Alert struct {
	Severity    string `json:"severity"`
	StorageID   string `json:"storageId"`
	StorageName string `json:"storageName"`
	Reason      string `json:"reason"`
	FacilityID  string `json:"facilityId"`
}

// Row kinds within a facility section.
const (
	RowKindRow         = "row"
	RowKindSubtotal    = "subtotal"
	RowKindGroup       = "group"
	RowKindPlaceholder = "placeholder"
)

// Row is one presentation-neutral line of a facility section. Values is keyed
// by date.
type Row struct {
	Kind         string             `json:"kind"`
	Label        string             `json:"label"`
	ProductLabel string             `json:"productLabel,omitempty"`
	StorageID    string             `json:"storageId,omitempty"`
	EquipmentID  string             `json:"equipmentId,omitempty"`
	Values       map[string]float64 `json:"values,omitempty"`
}

// FacilityResult is the complete output of one per-facility simulation run.
// It is a value object: the assembler merges results, nothing is shared.
type FacilityResult struct {
	FacilityID string

	// Quantity ledgers, keyed "date|storageId" / "date|productId" / "date|equipmentId".
	BOD      map[string]float64
	EOD      map[string]float64
	Shipped  map[string]float64
	Produced map[string]float64

	// Per-day stage totals, keyed by date.
	KilnTotal       map[string]float64
	MillTotal       map[string]float64
	ClinkerConsumed map[string]float64

	EquipmentCells map[string]EquipmentCell
	InventoryCells map[string]InventoryCell
	AlertsByDate   map[string][]Alert

	InventoryBODRows []Row
	ProductionRows   []Row
	OutflowRows      []Row
	InventoryEODRows []Row

	// Configuration findings, e.g. a product resolving to several storages.
	Warnings []string
}

// Unified row types emitted by the assembler.
const (
	RowTypeSectionHeader  = "section-header"
	RowTypeSubtotalHeader = "subtotal-header"
	RowTypeFacilityHeader = "facility-header"
	RowTypeGroupLabel     = "group-label"
	RowTypePlaceholder    = "placeholder"
	RowTypeChild          = "child"
)

// Plan sections, in display order.
var sections = []string{"bod", "prod", "out", "eod"}

var sectionLabels = map[string]string{
	"bod":  "INV-BOD [STn]",
	"prod": "PROD [STn/day]",
	"out":  "SHIPMENTS [STn]",
	"eod":  "INV-EOD [STn]",
}

// PlanRow is one line of the merged multi-facility view.
type PlanRow struct {
	Type         string             `json:"type"`
	Section      string             `json:"section"`
	FacilityID   string             `json:"facilityId,omitempty"`
	FacilityCode string             `json:"facilityCode,omitempty"`
	SubID        string             `json:"subId,omitempty"`
	Grand        bool               `json:"grand,omitempty"`
	Label        string             `json:"label"`
	ProductLabel string             `json:"productLabel,omitempty"`
	StorageID    string             `json:"storageId,omitempty"`
	EquipmentID  string             `json:"equipmentId,omitempty"`
	Values       map[string]float64 `json:"values,omitempty"`
}

// View is the assembled plan: ordered rows, global cell indexes and the
// date-keyed alert summary. It is recomputed in full on every invocation.
type View struct {
	Dates          []string                 `json:"dates"`
	Rows           []PlanRow                `json:"rows"`
	EquipmentCells map[string]EquipmentCell `json:"equipmentCellMeta"`
	InventoryCells map[string]InventoryCell `json:"inventoryCellMeta"`
	AlertSummary   map[string][]Alert       `json:"alertSummary"`
	MultiFacility  bool                     `json:"isMultiFacility"`
	FacilityIDs    []string                 `json:"facilityIds"`
	Warnings       []string                 `json:"warnings,omitempty"`
}

func cellKey(date, id string) string {
	return date + "|" + id
}
