package businessflow

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/repository"
	"github.com/salesloop/outreach/utils"
)

// stubRepo satisfies the generic Repository methods a fake does not need.
// Fakes embed it and override what the flow under test actually calls.
type stubRepo[T any, F any] struct{}

func (stubRepo[T, F]) ByID(ctx context.Context, id uint) (*T, error) { return nil, nil }
func (stubRepo[T, F]) ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error) {
	return nil, nil
}
func (stubRepo[T, F]) Save(ctx context.Context, entity *T) error        { return nil }
func (stubRepo[T, F]) SaveBatch(ctx context.Context, entities []*T) error { return nil }
func (stubRepo[T, F]) Count(ctx context.Context, filter F) (int64, error) { return 0, nil }
func (stubRepo[T, F]) Exists(ctx context.Context, filter F) (bool, error) { return false, nil }

type memCustomerRepo struct {
	stubRepo[models.Customer, models.CustomerFilter]
	customers map[uint]*models.Customer
}

func newMemCustomerRepo(customers ...*models.Customer) *memCustomerRepo {
	r := &memCustomerRepo{customers: make(map[uint]*models.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *memCustomerRepo) ByID(ctx context.Context, id uint) (*models.Customer, error) {
	return r.customers[id], nil
}

func (r *memCustomerRepo) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) ByUUID(ctx context.Context, id string) (*models.Customer, error) {
	for _, c := range r.customers {
		if c.UUID.String() == id {
			return c, nil
		}
	}
	return nil, nil
}

type memContactRepo struct {
	stubRepo[models.Contact, models.ContactFilter]
	contacts []*models.Contact
	nextID   uint
	saveErr  error
}

func newMemContactRepo(contacts ...*models.Contact) *memContactRepo {
	r := &memContactRepo{nextID: 1}
	for _, c := range contacts {
		if c.ID == 0 {
			c.ID = r.nextID
		}
		if c.UUID == uuid.Nil {
			c.UUID = uuid.New()
		}
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		r.contacts = append(r.contacts, c)
	}
	return r
}

func (r *memContactRepo) Save(ctx context.Context, contact *models.Contact) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if contact.ID == 0 {
		contact.ID = r.nextID
		r.nextID++
	}
	if contact.UUID == uuid.Nil {
		contact.UUID = uuid.New()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = utils.UTCNow()
	}
	r.contacts = append(r.contacts, contact)
	return nil
}

func (r *memContactRepo) ByUUID(ctx context.Context, id string) (*models.Contact, error) {
	for _, c := range r.contacts {
		if c.UUID.String() == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memContactRepo) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Contact, error) {
	var out []*models.Contact
	for _, c := range r.contacts {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return paginate(out, limit, offset), nil
}

type memCampaignRepo struct {
	stubRepo[models.Campaign, models.CampaignFilter]
	campaigns []*models.Campaign
	nextID    uint
	saveErr   error
	deleted   []uint
}

func newMemCampaignRepo(campaigns ...*models.Campaign) *memCampaignRepo {
	r := &memCampaignRepo{nextID: 1}
	for _, c := range campaigns {
		if c.ID == 0 {
			c.ID = r.nextID
		}
		if c.UUID == uuid.Nil {
			c.UUID = uuid.New()
		}
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		r.campaigns = append(r.campaigns, c)
	}
	return r
}

func (r *memCampaignRepo) Save(ctx context.Context, campaign *models.Campaign) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if campaign.ID == 0 {
		campaign.ID = r.nextID
		r.nextID++
		if campaign.UUID == uuid.Nil {
			campaign.UUID = uuid.New()
		}
		if campaign.CreatedAt.IsZero() {
			campaign.CreatedAt = utils.UTCNow()
		}
		r.campaigns = append(r.campaigns, campaign)
	}
	return nil
}

func (r *memCampaignRepo) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	for _, c := range r.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCampaignRepo) ByUUID(ctx context.Context, id string) (*models.Campaign, error) {
	for _, c := range r.campaigns {
		if c.UUID.String() == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCampaignRepo) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Campaign, error) {
	var out []*models.Campaign
	for _, c := range r.campaigns {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *memCampaignRepo) ListChildren(ctx context.Context, campaignID uint) ([]*models.Campaign, error) {
	var out []*models.Campaign
	for _, c := range r.campaigns {
		if c.ParentCampaignID != nil && *c.ParentCampaignID == campaignID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCampaignRepo) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	var n int64
	for _, c := range r.campaigns {
		if filter.CustomerID != nil && c.CustomerID != *filter.CustomerID {
			continue
		}
		n++
	}
	return n, nil
}

func (r *memCampaignRepo) Delete(ctx context.Context, campaignID uint) error {
	for i, c := range r.campaigns {
		if c.ID == campaignID {
			r.campaigns = append(r.campaigns[:i], r.campaigns[i+1:]...)
			break
		}
	}
	r.deleted = append(r.deleted, campaignID)
	return nil
}

type memSendRecordRepo struct {
	stubRepo[models.SendRecord, models.SendRecordFilter]
	records []*models.SendRecord
	nextID  uint
	saveErr error
}

func newMemSendRecordRepo(records ...*models.SendRecord) *memSendRecordRepo {
	r := &memSendRecordRepo{nextID: 1}
	for _, rec := range records {
		if rec.ID == 0 {
			rec.ID = r.nextID
		}
		if rec.ID >= r.nextID {
			r.nextID = rec.ID + 1
		}
		r.records = append(r.records, rec)
	}
	return r
}

func (r *memSendRecordRepo) Save(ctx context.Context, record *models.SendRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if record.ID == 0 {
		record.ID = r.nextID
		r.nextID++
		r.records = append(r.records, record)
	}
	return nil
}

func (r *memSendRecordRepo) ByCampaignAndIndex(ctx context.Context, campaignID uint, entryIndex int) (*models.SendRecord, error) {
	for _, rec := range r.records {
		if rec.CampaignID == campaignID && rec.EntryIndex == entryIndex {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memSendRecordRepo) ListByCampaign(ctx context.Context, campaignID uint) ([]*models.SendRecord, error) {
	var out []*models.SendRecord
	for _, rec := range r.records {
		if rec.CampaignID == campaignID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EntryIndex < out[j].EntryIndex })
	return out, nil
}

func (r *memSendRecordRepo) CountByCampaign(ctx context.Context, campaignID uint) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

func (r *memSendRecordRepo) MarkOutcome(ctx context.Context, campaignID uint, entryIndex int, outcome models.Outcome, markedAt time.Time) (*models.SendRecord, error) {
	rec, _ := r.ByCampaignAndIndex(ctx, campaignID, entryIndex)
	if rec == nil {
		return nil, repository.ErrSendRecordNotFound
	}
	if rec.OutcomeLocked {
		return nil, repository.ErrOutcomeAlreadyLocked
	}
	rec.Outcome = &outcome
	rec.OutcomeMarkedAt = &markedAt
	if outcome.Terminal() {
		rec.OutcomeLocked = true
		rec.OutcomeLockedAt = &markedAt
	}
	return rec, nil
}

type memTemplateRepo struct {
	stubRepo[models.Template, models.TemplateFilter]
	templates []*models.Template
	nextID    uint
	saveErr   error
}

func newMemTemplateRepo() *memTemplateRepo {
	return &memTemplateRepo{nextID: 1}
}

func (r *memTemplateRepo) Save(ctx context.Context, template *models.Template) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if template.ID == 0 {
		template.ID = r.nextID
		r.nextID++
		if template.UUID == uuid.Nil {
			template.UUID = uuid.New()
		}
		if template.CreatedAt.IsZero() {
			template.CreatedAt = utils.UTCNow()
		}
		r.templates = append(r.templates, template)
	}
	return nil
}

func (r *memTemplateRepo) ByUUID(ctx context.Context, id string) (*models.Template, error) {
	for _, t := range r.templates {
		if t.UUID.String() == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTemplateRepo) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Template, error) {
	var out []*models.Template
	for _, t := range r.templates {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *memTemplateRepo) DeleteByUUID(ctx context.Context, customerID uint, id string) error {
	for i, t := range r.templates {
		if t.CustomerID == customerID && t.UUID.String() == id {
			r.templates = append(r.templates[:i], r.templates[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memTemplateRepo) Count(ctx context.Context, filter models.TemplateFilter) (int64, error) {
	var n int64
	for _, t := range r.templates {
		if filter.CustomerID != nil && t.CustomerID != *filter.CustomerID {
			continue
		}
		n++
	}
	return n, nil
}

type memActivityRepo struct {
	stubRepo[models.Activity, models.ActivityFilter]
	activities []*models.Activity
	nextID     uint
	saveErr    error
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{nextID: 1}
}

func (r *memActivityRepo) Save(ctx context.Context, activity *models.Activity) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	activity.ID = r.nextID
	r.nextID++
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = utils.UTCNow()
	}
	r.activities = append(r.activities, activity)
	return nil
}

func (r *memActivityRepo) ListByContact(ctx context.Context, contactID uint, limit, offset int) ([]*models.Activity, error) {
	var out []*models.Activity
	for _, a := range r.activities {
		if a.ContactID == contactID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *memActivityRepo) Count(ctx context.Context, filter models.ActivityFilter) (int64, error) {
	var n int64
	for _, a := range r.activities {
		if filter.ContactID != nil && a.ContactID != *filter.ContactID {
			continue
		}
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		n++
	}
	return n, nil
}

// byType returns the contact's activities of one type, oldest first
func (r *memActivityRepo) byType(contactID uint, activityType models.ActivityType) []*models.Activity {
	var out []*models.Activity
	for _, a := range r.activities {
		if a.ContactID == contactID && a.Type == activityType {
			out = append(out, a)
		}
	}
	return out
}

type memAuditRepo struct {
	stubRepo[models.AuditLog, models.AuditLogFilter]
	entries []*models.AuditLog
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{}
}

func (r *memAuditRepo) Save(ctx context.Context, entry *models.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.AuditLog, error) {
	var out []*models.AuditLog
	for _, e := range r.entries {
		if e.CustomerID != nil && *e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *memAuditRepo) byAction(action string) []*models.AuditLog {
	var out []*models.AuditLog
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func paginate[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func activeCustomer(id uint) *models.Customer {
	return &models.Customer{
		ID:        id,
		UUID:      uuid.New(),
		FirstName: "Jordan",
		LastName:  "Reyes",
		Email:     "jordan.reyes@example.com",
		IsActive:  utils.ToPtr(true),
	}
}

func reachableContact(id, customerID uint) *models.Contact {
	return &models.Contact{
		ID:         id,
		UUID:       uuid.New(),
		CustomerID: customerID,
		FirstName:  "Avery",
		LastName:   "Kim",
		Title:      utils.ToPtr("VP Engineering"),
		Company:    utils.ToPtr("Northwind"),
		Email:      utils.ToPtr("avery.kim@example.com"),
		Phone:      utils.ToPtr("+14155550142"),
	}
}

func emailOnlyContact(id, customerID uint) *models.Contact {
	c := reachableContact(id, customerID)
	c.Phone = nil
	return c
}

func phoneOnlyContact(id, customerID uint) *models.Contact {
	c := reachableContact(id, customerID)
	c.Email = nil
	return c
}

func testMetadata() *ClientMetadata {
	md := NewClientMetadata("203.0.113.10", "integration-test/1.0")
	md.SetRequestID("req-test-1")
	return md
}
