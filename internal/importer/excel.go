// Package importer loads the legacy inventory workbook into the database.
// Sheet layouts and normalisation rules follow the spreadsheet the inventory
// was tracked in before this system existed.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// statusMap normalises the free-text "Operation" column.
var statusMap = map[string]types.AssetStatus{
	"active":      types.StatusActive,
	"in use":      types.StatusActive,
	"spare":       types.StatusSpare,
	"store spare": types.StatusSpare,
	"repair":      types.StatusRepair,
	"retired":     types.StatusRetired,
	"archive":     types.StatusRetired,
}

// sheetOrder fixes ingestion order; later sheets reference assets and people
// created by earlier ones.
var sheetOrder = []string{
	"Servers",
	"Computers",
	"Network Devices",
	"Store Spare Computers",
	"Store Spare Monitor",
	"Archive",
}

type Report struct {
	Sheets map[string]int
}

type Importer struct {
	db    *gorm.DB
	repos *repos.Repos
	log   *logger.Logger
}

func New(db *gorm.DB, r *repos.Repos, baseLog *logger.Logger) *Importer {
	return &Importer{db: db, repos: r, log: baseLog.With("component", "Importer")}
}

// row is one sheet row addressed by header name.
type row map[string]string

func (r row) get(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(r[name]); v != "" {
			return v
		}
	}
	return ""
}

func (r row) empty() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ImportWorkbook ingests every known sheet inside one transaction; a failure
// on any row leaves the database untouched.
func (im *Importer) ImportWorkbook(ctx context.Context, path string) (*Report, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	report := &Report{Sheets: map[string]int{}}
	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)
		for _, sheet := range sheetOrder {
			rows, err := sheetRows(book, sheet)
			if err != nil {
				return err
			}
			if rows == nil {
				continue
			}

			var ingestErr error
			switch sheet {
			case "Servers":
				ingestErr = im.ingestServers(dbc, rows)
			case "Computers":
				ingestErr = im.ingestComputers(dbc, rows, types.StatusActive)
			case "Network Devices":
				ingestErr = im.ingestNetworkDevices(dbc, rows)
			case "Store Spare Computers":
				ingestErr = im.ingestComputers(dbc, rows, types.StatusSpare)
			case "Store Spare Monitor":
				ingestErr = im.ingestSpares(dbc, rows, "Monitor")
			case "Archive":
				ingestErr = im.ingestArchive(dbc, rows)
			}
			if ingestErr != nil {
				return fmt.Errorf("sheet %q: %w", sheet, ingestErr)
			}
			report.Sheets[sheet] = len(rows)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.log.Info("workbook imported", "path", path, "sheets", len(report.Sheets))
	return report, nil
}

// sheetRows returns nil (no error) when the sheet is absent from the book.
func sheetRows(book *excelize.File, sheet string) ([]row, error) {
	idx, err := book.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, nil
	}

	raw, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(raw) < 2 {
		return []row{}, nil
	}

	headers := raw[0]
	rows := make([]row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		r := make(row, len(headers))
		for i, header := range headers {
			header = strings.TrimSpace(header)
			if header == "" {
				continue
			}
			if i < len(cells) {
				r[header] = cells[i]
			}
		}
		if !r.empty() {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func normaliseStatus(raw string, def types.AssetStatus) types.AssetStatus {
	if raw == "" {
		return def
	}
	if s, ok := statusMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return def
}

func (im *Importer) getOrCreateUnit(dbc dbctx.Context, name string, category types.OrganisationCategory) (*types.OrganisationUnit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	unit, err := im.repos.OrgUnit.GetByName(dbc, name)
	if err != nil {
		return nil, err
	}
	if unit != nil {
		return unit, nil
	}
	unit = &types.OrganisationUnit{Name: name, Category: category}
	if err := im.repos.OrgUnit.Create(dbc, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (im *Importer) getOrCreateModel(dbc dbctx.Context, typeName, modelName string) (*types.AssetModel, error) {
	assetType, err := im.repos.AssetType.GetByName(dbc, typeName)
	if err != nil {
		return nil, err
	}
	if assetType == nil {
		assetType = &types.AssetType{Name: typeName, Category: typeName}
		if err := im.repos.AssetType.Create(dbc, assetType); err != nil {
			return nil, err
		}
	}

	model, err := im.repos.AssetModel.GetByModelNumber(dbc, modelName)
	if err != nil {
		return nil, err
	}
	if model != nil {
		return model, nil
	}
	model = &types.AssetModel{
		ModelNumber:        modelName,
		AssetTypeID:        assetType.ID,
		DefaultDescription: &modelName,
	}
	if err := im.repos.AssetModel.Create(dbc, model); err != nil {
		return nil, err
	}
	return model, nil
}

func (im *Importer) getOrCreatePerson(dbc dbctx.Context, fullName, username, company string, department *types.OrganisationUnit, reportsToName string) (*types.Person, error) {
	fullName = strings.TrimSpace(fullName)
	username = strings.TrimSpace(username)
	if fullName == "" && username == "" {
		return nil, nil
	}

	var person *types.Person
	var err error
	if username != "" {
		person, err = im.repos.Person.GetByUsername(dbc, username)
	} else {
		var matches []*types.Person
		matches, _, err = im.repos.Person.List(dbc, repos.PersonListFilter{Search: fullName, Size: 1})
		if err == nil && len(matches) > 0 && matches[0].FullName == fullName {
			person = matches[0]
		}
	}
	if err != nil {
		return nil, err
	}

	if person == nil {
		name := fullName
		if name == "" {
			name = username
		}
		person = &types.Person{FullName: name}
		if username != "" {
			person.Username = &username
		}
		if company != "" {
			person.Company = &company
		}
		if err := im.repos.Person.Create(dbc, person); err != nil {
			return nil, err
		}
	}

	changed := false
	if department != nil && (person.DepartmentID == nil || *person.DepartmentID != department.ID) {
		person.DepartmentID = &department.ID
		changed = true
	}
	if reportsToName = strings.TrimSpace(reportsToName); reportsToName != "" {
		manager, err := im.getOrCreatePerson(dbc, reportsToName, "", "", nil, "")
		if err != nil {
			return nil, err
		}
		if manager != nil {
			person.ReportsToID = &manager.ID
			changed = true
		}
	}
	if changed {
		if err := im.repos.Person.Update(dbc, person); err != nil {
			return nil, err
		}
	}
	return person, nil
}

func (im *Importer) findAsset(dbc dbctx.Context, tag, serial string) (*types.Asset, error) {
	if tag = strings.TrimSpace(tag); tag != "" {
		asset, err := im.repos.Asset.GetByTag(dbc, tag)
		if err != nil {
			return nil, err
		}
		if asset != nil {
			return asset, nil
		}
	}
	if serial = strings.TrimSpace(serial); serial != "" {
		asset, err := im.repos.Asset.GetBySerial(dbc, serial)
		if err != nil {
			return nil, err
		}
		if asset != nil {
			return asset, nil
		}
	}
	return nil, nil
}

// ensureAssignment opens an assignment to the person unless one is already
// open to them; an open assignment to someone else is closed first.
func (im *Importer) ensureAssignment(dbc dbctx.Context, asset *types.Asset, person *types.Person, primaryDevice bool, notes string) error {
	open, err := im.repos.Assignment.GetOpenByAssetID(dbc, asset.ID)
	if err != nil {
		return err
	}
	for _, assignment := range open {
		if assignment.PersonID == person.ID {
			return nil
		}
		now := time.Now().UTC()
		assignment.EndDate = &now
		if err := im.repos.Assignment.Update(dbc, assignment); err != nil {
			return err
		}
	}
	return im.repos.Assignment.Create(dbc, &types.Assignment{
		AssetID:       asset.ID,
		PersonID:      person.ID,
		StartDate:     time.Now().UTC(),
		PrimaryDevice: primaryDevice,
		Notes:         notes,
	})
}

func (im *Importer) recordImportEvent(dbc dbctx.Context, asset *types.Asset, notes string) error {
	return im.repos.Event.Create(dbc, &types.AssetEvent{
		AssetID:   asset.ID,
		Action:    types.EventCreated,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	})
}

// upsertAsset creates or refreshes one asset row from a sheet row.
func (im *Importer) upsertAsset(
	dbc dbctx.Context,
	typeName string,
	r row,
	defaultStatus types.AssetStatus,
	defaultLocation *types.OrganisationUnit,
	descriptionFields []string,
) (*types.Asset, error) {
	modelName := r.get("Asset model")
	if modelName == "" {
		modelName = typeName
	}
	model, err := im.getOrCreateModel(dbc, typeName, modelName)
	if err != nil {
		return nil, err
	}

	description := r.get("Description")
	if description == "" {
		var parts []string
		for _, field := range descriptionFields {
			if v := r.get(field); v != "" {
				parts = append(parts, v)
			}
		}
		description = strings.Join(parts, " | ")
	}

	status := normaliseStatus(r.get("Operation"), defaultStatus)
	location := defaultLocation
	if location == nil && status == types.StatusActive {
		location, err = im.getOrCreateUnit(dbc, "Unassigned Pool", types.OrgCategoryWarehouse)
		if err != nil {
			return nil, err
		}
	}

	tag := r.get("Asset name")
	serial := r.get("Serial Number")
	asset, err := im.findAsset(dbc, tag, serial)
	if err != nil {
		return nil, err
	}

	if asset == nil {
		asset = &types.Asset{
			AssetModelID:   model.ID,
			Status:         status,
			OperationState: types.OperationNormal,
		}
		if tag != "" {
			asset.AssetTag = &tag
		}
		if serial != "" {
			asset.SerialNumber = &serial
		}
		if supplier := r.get("Supplier"); supplier != "" {
			asset.Supplier = &supplier
		}
		if description != "" {
			asset.Description = &description
		}
		if location != nil {
			asset.LocationID = &location.ID
		}
		if err := im.repos.Asset.Create(dbc, asset); err != nil {
			return nil, err
		}
		if err := im.recordImportEvent(dbc, asset, fmt.Sprintf("Imported %s", typeName)); err != nil {
			return nil, err
		}
		return asset, nil
	}

	asset.AssetModelID = model.ID
	if tag != "" {
		asset.AssetTag = &tag
	}
	if serial != "" {
		asset.SerialNumber = &serial
	}
	asset.Status = status
	asset.OperationState = types.OperationNormal
	if supplier := r.get("Supplier"); supplier != "" {
		asset.Supplier = &supplier
	}
	if description != "" {
		asset.Description = &description
	}
	if location != nil {
		asset.LocationID = &location.ID
	}
	if err := im.repos.Asset.Update(dbc, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (im *Importer) ingestServers(dbc dbctx.Context, rows []row) error {
	for _, r := range rows {
		department, err := im.getOrCreateUnit(dbc, r.get("Department"), types.OrgCategoryDepartment)
		if err != nil {
			return err
		}
		asset, err := im.upsertAsset(dbc, "Server", r, types.StatusActive, department, []string{"Description"})
		if err != nil {
			return err
		}

		changed := false
		if purchased := parseDate(r.get("Date of Purchase")); purchased != nil {
			asset.PurchaseDate = purchased
			changed = true
		}
		if supplier := r.get("Supplier"); supplier != "" {
			asset.Supplier = &supplier
			changed = true
		}
		if changed {
			if err := im.repos.Asset.Update(dbc, asset); err != nil {
				return err
			}
		}
	}
	return nil
}

func (im *Importer) ingestComputers(dbc dbctx.Context, rows []row, defaultStatus types.AssetStatus) error {
	for _, r := range rows {
		department, err := im.getOrCreateUnit(dbc, r.get("Department"), types.OrgCategoryDepartment)
		if err != nil {
			return err
		}
		location, err := im.getOrCreateUnit(dbc, r.get("LOCATION", "Location"), types.OrgCategoryWarehouse)
		if err != nil {
			return err
		}
		person, err := im.getOrCreatePerson(dbc, r.get("Assigned User"), r.get("Username"), r.get("Company"), department, r.get("Report To"))
		if err != nil {
			return err
		}

		defaultLocation := location
		if defaultLocation == nil {
			defaultLocation = department
		}
		asset, err := im.upsertAsset(dbc, "Computer", r, defaultStatus, defaultLocation, []string{"Company", "Department"})
		if err != nil {
			return err
		}

		if person != nil {
			asset.Status = types.StatusActive
			if err := im.repos.Asset.Update(dbc, asset); err != nil {
				return err
			}
			if err := im.ensureAssignment(dbc, asset, person, true, "Imported from Computers sheet"); err != nil {
				return err
			}
		}

		for _, column := range []string{"Monitor 1", "Monitor 2", "Monitor 3"} {
			if err := im.attachMonitor(dbc, asset, r.get(column), person); err != nil {
				return err
			}
		}
	}
	return nil
}

func (im *Importer) attachMonitor(dbc dbctx.Context, computer *types.Asset, monitorTag string, person *types.Person) error {
	monitorTag = strings.TrimSpace(monitorTag)
	if monitorTag == "" {
		return nil
	}

	monitor, err := im.findAsset(dbc, monitorTag, "")
	if err != nil {
		return err
	}
	if monitor == nil {
		model, err := im.getOrCreateModel(dbc, "Monitor", "Generic Monitor")
		if err != nil {
			return err
		}
		monitor = &types.Asset{
			AssetModelID:   model.ID,
			AssetTag:       &monitorTag,
			Status:         types.StatusActive,
			OperationState: types.OperationNormal,
			LocationID:     computer.LocationID,
		}
		if err := im.repos.Asset.Create(dbc, monitor); err != nil {
			return err
		}
		if err := im.recordImportEvent(dbc, monitor, "Created while linking monitor to computer"); err != nil {
			return err
		}
	} else {
		changed := false
		if computer.LocationID != nil && (monitor.LocationID == nil || *monitor.LocationID != *computer.LocationID) {
			monitor.LocationID = computer.LocationID
			changed = true
		}
		if monitor.Status != types.StatusActive {
			monitor.Status = types.StatusActive
			changed = true
		}
		if changed {
			if err := im.repos.Asset.Update(dbc, monitor); err != nil {
				return err
			}
		}
	}

	if person != nil {
		parentName := "computer"
		if computer.AssetTag != nil {
			parentName = *computer.AssetTag
		}
		if err := im.ensureAssignment(dbc, monitor, person, false, fmt.Sprintf("Imported with %s", parentName)); err != nil {
			return err
		}
	}

	exists, err := im.repos.Relationship.Exists(dbc, computer.ID, monitor.ID, types.RelationPeripheralOf)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return im.repos.Relationship.Create(dbc, &types.AssetRelationship{
		ParentAssetID: computer.ID,
		ChildAssetID:  monitor.ID,
		RelationType:  types.RelationPeripheralOf,
	})
}

func (im *Importer) ingestNetworkDevices(dbc dbctx.Context, rows []row) error {
	for _, r := range rows {
		if _, err := im.upsertAsset(dbc, "Network Device", r, types.StatusActive, nil, []string{"Description"}); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) ingestSpares(dbc dbctx.Context, rows []row, typeName string) error {
	for _, r := range rows {
		location, err := im.getOrCreateUnit(dbc, r.get("Location"), types.OrgCategoryWarehouse)
		if err != nil {
			return err
		}
		if _, err := im.upsertAsset(dbc, typeName, r, types.StatusSpare, location, []string{"Company", "Department"}); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) ingestArchive(dbc dbctx.Context, rows []row) error {
	archiveUnit, err := im.getOrCreateUnit(dbc, "Archive", types.OrgCategoryArchive)
	if err != nil {
		return err
	}
	for _, r := range rows {
		person, err := im.getOrCreatePerson(dbc, r.get("Assigned User"), r.get("Username"), "", nil, "")
		if err != nil {
			return err
		}

		typeName := r.get("Type")
		if typeName == "" {
			typeName = "Archived Asset"
		}
		asset, err := im.upsertAsset(dbc, typeName, r, types.StatusRetired, archiveUnit, []string{"Asset name", "Location"})
		if err != nil {
			return err
		}

		asset.Status = types.StatusRetired
		if person != nil {
			asset.Notes = fmt.Sprintf("Last assigned to %s", person.FullName)
		}
		if err := im.repos.Asset.Update(dbc, asset); err != nil {
			return err
		}
	}
	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01-02-06",
	"Jan 2, 2006",
	time.RFC3339,
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
