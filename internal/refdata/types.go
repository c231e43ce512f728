package refdata

// Category classifies a catalog product by its role in the process chain.
type Category string

const (
	CategoryRaw          Category = "RAW_MATERIAL"
	CategoryFuel         Category = "FUEL"
	CategoryIntermediate Category = "INTERMEDIATE_PRODUCT"
	CategoryFinished     Category = "FINISHED_PRODUCT"
)

// Family is the simulation-level grouping derived from the catalog.
// Clinker is the intermediate pool drawn down by finish mills; cement is
// everything shipped to customers.
type Family string

const (
	FamilyClinker Family = "CLINKER"
	FamilyCement  Family = "CEMENT"
	FamilyFuel    Family = "FUEL"
	FamilyRaw     Family = "RAW"
	FamilyOther   Family = "OTHER"
)

// FacilityType determines which process stages a facility runs.
type FacilityType string

const (
	FacilityCementPlant FacilityType = "cement_plant" // kiln + finish mill
	FacilityGrinding    FacilityType = "grinding"     // finish mill only
	FacilityTerminal    FacilityType = "terminal"     // storage + shipments only
)

// EquipmentType drives which allocation stage an equipment unit participates in.
type EquipmentType string

const (
	EquipmentKiln       EquipmentType = "kiln"
	EquipmentFinishMill EquipmentType = "finish_mill"
	EquipmentRawMill    EquipmentType = "raw_mill"
)

// CampaignStatus is the planned state of an equipment unit for one day.
type CampaignStatus string

const (
	StatusProduce     CampaignStatus = "produce"
	StatusMaintenance CampaignStatus = "maintenance"
	StatusIdle        CampaignStatus = "idle"
)

// ProductFamily is a reference-table row the catalog points into.
type ProductFamily struct {
	ID       string   `json:"id"`
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// Product is a regional catalog entry. Facilities activate products
// individually via FacilityProduct rows.
type Product struct {
	ID       string   `json:"id"`
	RegionID string   `json:"regionId,omitempty"`
	FamilyID string   `json:"familyId,omitempty"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Unit     string   `json:"unit,omitempty"`
}

type Country struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Region struct {
	ID        string `json:"id"`
	CountryID string `json:"countryId"`
	Name      string `json:"name"`
	Code      string `json:"code"`
}

type SubRegion struct {
	ID       string `json:"id"`
	RegionID string `json:"regionId"`
	Name     string `json:"name"`
	Code     string `json:"code"`
}

type Facility struct {
	ID          string       `json:"id"`
	SubRegionID string       `json:"subRegionId"`
	Name        string       `json:"name"`
	Code        string       `json:"code"`
	Type        FacilityType `json:"facilityType"`
}

// Org is the shared location hierarchy. Facilities hang off sub-regions.
type Org struct {
	Countries  []Country   `json:"countries"`
	Regions    []Region    `json:"regions"`
	SubRegions []SubRegion `json:"subRegions"`
	Facilities []Facility  `json:"facilities"`
}

type Equipment struct {
	ID         string        `json:"id"`
	FacilityID string        `json:"facilityId"`
	Name       string        `json:"name"`
	Type       EquipmentType `json:"type"`
}

// Capability is a (equipment, product) pair with a maximum daily rate.
type Capability struct {
	ID          string  `json:"id"`
	EquipmentID string  `json:"equipmentId"`
	ProductID   string  `json:"productId"`
	MaxRate     float64 `json:"maxRateStpd"`
}

type RecipeComponent struct {
	ProductID string  `json:"materialId"`
	Pct       float64 `json:"pct"`
}

// Recipe is a versioned bill of materials for one product at one facility.
// Component percentages are consumed as-is; they need not sum to 100.
type Recipe struct {
	ID         string            `json:"id"`
	FacilityID string            `json:"facilityId"`
	ProductID  string            `json:"productId"`
	Version    int               `json:"version"`
	Components []RecipeComponent `json:"components"`
}

// Storage holds inventory of its allowed products. A non-positive MaxCapacity
// means unbounded.
type Storage struct {
	ID                string   `json:"id"`
	FacilityID        string   `json:"facilityId"`
	Name              string   `json:"name"`
	AllowedProductIDs []string `json:"allowedProductIds"`
	MaxCapacity       float64  `json:"maxCapacityStn"`
}

// Campaign is one planning record: equipment status for one day and, when
// producing, the product and planned daily rate.
type Campaign struct {
	Date        string         `json:"date"`
	FacilityID  string         `json:"facilityId"`
	EquipmentID string         `json:"equipmentId"`
	ProductID   string         `json:"productId,omitempty"`
	Rate        float64        `json:"rateStn"`
	Status      CampaignStatus `json:"status"`
}

// ForecastRow is a planned shipment quantity, used only when no actual
// shipment is recorded for the same date and product.
type ForecastRow struct {
	Date       string  `json:"date"`
	FacilityID string  `json:"facilityId"`
	ProductID  string  `json:"productId"`
	CustomerID string  `json:"customerId,omitempty"`
	Qty        float64 `json:"qtyStn"`
}

// InventoryCount is a measured beginning-of-day quantity that overrides the
// calculated carry-forward for that storage from that date on.
type InventoryCount struct {
	Date       string  `json:"date"`
	FacilityID string  `json:"facilityId"`
	StorageID  string  `json:"storageId"`
	ProductID  string  `json:"productId,omitempty"`
	Qty        float64 `json:"qtyStn"`
}

type ProductionActual struct {
	Date        string  `json:"date"`
	FacilityID  string  `json:"facilityId"`
	EquipmentID string  `json:"equipmentId"`
	ProductID   string  `json:"productId"`
	Qty         float64 `json:"qtyStn"`
}

type ShipmentActual struct {
	Date       string  `json:"date"`
	FacilityID string  `json:"facilityId"`
	ProductID  string  `json:"productId"`
	CustomerID string  `json:"customerId,omitempty"`
	Qty        float64 `json:"qtyStn"`
}

// Transfer is a plant-to-plant movement. It decreases inventory at the source
// facility and increases it at the destination on the same date.
type Transfer struct {
	Date           string  `json:"date"`
	FromFacilityID string  `json:"fromFacilityId"`
	ToFacilityID   string  `json:"toFacilityId"`
	ProductID      string  `json:"productId"`
	Qty            float64 `json:"qtyStn"`
	Notes          string  `json:"notes,omitempty"`
}

// FacilityProduct activates a catalog product for a facility.
type FacilityProduct struct {
	FacilityID string `json:"facilityId"`
	ProductID  string `json:"productId"`
}

// Actuals bundles the recorded operational history.
type Actuals struct {
	InventoryBOD []InventoryCount   `json:"inventoryBOD"`
	Production   []ProductionActual `json:"production"`
	Shipments    []ShipmentActual   `json:"shipments"`
	Transfers    []Transfer         `json:"transfers"`
}

// Dataset is the operational data for all facilities.
type Dataset struct {
	FacilityProducts []FacilityProduct `json:"facilityProducts"`
	Recipes          []Recipe          `json:"recipes"`
	Equipment        []Equipment       `json:"equipment"`
	Storages         []Storage         `json:"storages"`
	Capabilities     []Capability      `json:"capabilities"`
	DemandForecast   []ForecastRow     `json:"demandForecast"`
	Campaigns        []Campaign        `json:"campaigns"`
	Actuals          Actuals           `json:"actuals"`
}

// Snapshot is the full reference-data state the simulation reads. The engine
// treats it as immutable for the duration of one run.
type Snapshot struct {
	Version  int             `json:"_version"`
	Org      Org             `json:"org"`
	Families []ProductFamily `json:"productFamilies"`
	Catalog  []Product       `json:"catalog"`
	Data     Dataset         `json:"data"`
}
