// Package businessflow contains the core business logic and use cases for contact management
package businessflow

import (
	"context"
	"fmt"

	"github.com/salesloop/outreach/app/dto"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/repository"
	"gorm.io/gorm"
)

// ContactFlow handles contact management and the append-only activity log
type ContactFlow interface {
	CreateContact(ctx context.Context, req *dto.CreateContactRequest, metadata *ClientMetadata) (*dto.CreateContactResponse, error)
	GetContact(ctx context.Context, req *dto.GetContactRequest, metadata *ClientMetadata) (*dto.GetContactResponse, error)
	ListActivities(ctx context.Context, req *dto.ListActivitiesRequest, metadata *ClientMetadata) (*dto.ListActivitiesResponse, error)
	AddNote(ctx context.Context, req *dto.AddNoteRequest, metadata *ClientMetadata) (*dto.NoteResponse, error)
	EditNote(ctx context.Context, req *dto.EditNoteRequest, metadata *ClientMetadata) (*dto.NoteResponse, error)
	DeleteNote(ctx context.Context, req *dto.DeleteNoteRequest, metadata *ClientMetadata) (*dto.NoteResponse, error)
}

// ContactFlowImpl implements the contact business flow
type ContactFlowImpl struct {
	contactRepo  repository.ContactRepository
	activityRepo repository.ActivityRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewContactFlow creates a new contact flow instance
func NewContactFlow(
	contactRepo repository.ContactRepository,
	activityRepo repository.ActivityRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ContactFlow {
	return &ContactFlowImpl{
		contactRepo:  contactRepo,
		activityRepo: activityRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateContact stores a new contact and appends its first activity entry
func (s *ContactFlowImpl) CreateContact(ctx context.Context, req *dto.CreateContactRequest, metadata *ClientMetadata) (*dto.CreateContactResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	contact := &models.Contact{
		CustomerID: customer.ID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Title:      req.Title,
		Company:    req.Company,
		Phone:      req.Phone,
		Email:      req.Email,
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.contactRepo.Save(txCtx, contact); err != nil {
			return err
		}
		return s.activityRepo.Save(txCtx, &models.Activity{
			ContactID: contact.ID,
			Type:      models.ActivityContactCreated,
			Details:   fmt.Sprintf("Contact %s created", contact.FullName()),
		})
	})
	if err != nil {
		return nil, NewBusinessError("CONTACT_CREATION_FAILED", "Failed to create contact", err)
	}

	msg := fmt.Sprintf("Contact created: %s", contact.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, customer, models.AuditActionContactCreated, msg, true, nil, metadata)

	return &dto.CreateContactResponse{
		Message: "Contact created successfully",
		Contact: ToContactDTO(contact),
	}, nil
}

// GetContact returns a contact and appends a profile_viewed activity
func (s *ContactFlowImpl) GetContact(ctx context.Context, req *dto.GetContactRequest, metadata *ClientMetadata) (*dto.GetContactResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	contact, err := s.loadOwnedContact(ctx, req.UUID, customer.ID)
	if err != nil {
		return nil, err
	}

	_ = s.activityRepo.Save(ctx, &models.Activity{
		ContactID: contact.ID,
		Type:      models.ActivityProfileViewed,
		Details:   "Profile viewed",
	})

	return &dto.GetContactResponse{Contact: ToContactDTO(contact)}, nil
}

// ListActivities returns a contact's activity log, newest first
func (s *ContactFlowImpl) ListActivities(ctx context.Context, req *dto.ListActivitiesRequest, metadata *ClientMetadata) (*dto.ListActivitiesResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, req.CustomerID)
	if err != nil {
		return nil, err
	}

	contact, err := s.loadOwnedContact(ctx, req.ContactUUID, customer.ID)
	if err != nil {
		return nil, err
	}

	total, err := s.activityRepo.Count(ctx, models.ActivityFilter{ContactID: &contact.ID})
	if err != nil {
		return nil, NewBusinessError("ACTIVITY_LOOKUP_FAILED", "Failed to count activities", err)
	}

	page, pageSize, pagination := buildPagination(req.Page, req.PageSize, total)
	activities, err := s.activityRepo.ListByContact(ctx, contact.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("ACTIVITY_LOOKUP_FAILED", "Failed to list activities", err)
	}

	dtos := make([]dto.ActivityDTO, 0, len(activities))
	for _, activity := range activities {
		dtos = append(dtos, dto.ActivityDTO{
			Type:      string(activity.Type),
			Details:   activity.Details,
			CreatedAt: activity.CreatedAt,
		})
	}

	return &dto.ListActivitiesResponse{
		Activities: dtos,
		Pagination: pagination,
	}, nil
}

// AddNote appends a note_added activity. Notes live in the activity log;
// nothing is ever rewritten.
func (s *ContactFlowImpl) AddNote(ctx context.Context, req *dto.AddNoteRequest, metadata *ClientMetadata) (*dto.NoteResponse, error) {
	return s.appendNoteActivity(ctx, req.CustomerID, req.ContactUUID, models.ActivityNoteAdded, req.Note)
}

// EditNote appends a note_edited activity carrying the new text
func (s *ContactFlowImpl) EditNote(ctx context.Context, req *dto.EditNoteRequest, metadata *ClientMetadata) (*dto.NoteResponse, error) {
	return s.appendNoteActivity(ctx, req.CustomerID, req.ContactUUID, models.ActivityNoteEdited, req.Note)
}

// DeleteNote appends a note_deleted activity; earlier note entries remain
func (s *ContactFlowImpl) DeleteNote(ctx context.Context, req *dto.DeleteNoteRequest, metadata *ClientMetadata) (*dto.NoteResponse, error) {
	return s.appendNoteActivity(ctx, req.CustomerID, req.ContactUUID, models.ActivityNoteDeleted, "Note deleted")
}

func (s *ContactFlowImpl) appendNoteActivity(ctx context.Context, customerID uint, contactUUID string, activityType models.ActivityType, details string) (*dto.NoteResponse, error) {
	customer, err := loadActiveCustomer(ctx, s.customerRepo, customerID)
	if err != nil {
		return nil, err
	}

	contact, err := s.loadOwnedContact(ctx, contactUUID, customer.ID)
	if err != nil {
		return nil, err
	}

	if err := s.activityRepo.Save(ctx, &models.Activity{
		ContactID: contact.ID,
		Type:      activityType,
		Details:   details,
	}); err != nil {
		return nil, NewBusinessError("ACTIVITY_SAVE_FAILED", "Failed to record activity", err)
	}

	return &dto.NoteResponse{Message: "Activity recorded successfully"}, nil
}

func (s *ContactFlowImpl) loadOwnedContact(ctx context.Context, contactUUID string, customerID uint) (*models.Contact, error) {
	contact, err := s.contactRepo.ByUUID(ctx, contactUUID)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LOOKUP_FAILED", "Failed to lookup contact", err)
	}
	if contact == nil || contact.CustomerID != customerID {
		return nil, NewBusinessError("CONTACT_NOT_FOUND", "Contact not found", ErrContactNotFound)
	}
	return contact, nil
}
