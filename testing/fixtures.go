// Package testing provides test utilities and database setup for testing the outreach system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCustomer creates an active test customer
func (tf *TestFixtures) CreateTestCustomer() (*models.Customer, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	customer := &models.Customer{
		UUID:      uuid.New(),
		FirstName: "Jordan",
		LastName:  "Reyes",
		Email:     fmt.Sprintf("jordan.reyes.%s@example.com", randomDigits),
		Company:   utils.ToPtr("Acme Corp"),
		IsActive:  utils.ToPtr(true),
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}

	return customer, nil
}

// CreateTestContact creates a contact belonging to the given customer. The
// contact has both an email address and a phone number.
func (tf *TestFixtures) CreateTestContact(customerID uint) (*models.Contact, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	contact := &models.Contact{
		UUID:       uuid.New(),
		CustomerID: customerID,
		FirstName:  "Avery",
		LastName:   "Kim",
		Title:      utils.ToPtr("VP of Engineering"),
		Company:    utils.ToPtr("Globex Inc"),
		Email:      utils.ToPtr(fmt.Sprintf("avery.kim.%s@example.com", randomDigits)),
		Phone:      utils.ToPtr("+1415" + randomDigits[:7]),
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contact: %w", err)
	}

	return contact, nil
}

// CreateTestCampaign creates an email campaign for the given customer
func (tf *TestFixtures) CreateTestCampaign(customerID uint) (*models.Campaign, error) {
	campaign := &models.Campaign{
		UUID:             uuid.New(),
		CustomerID:       customerID,
		Name:             "Q3 Product Launch",
		Channel:          models.CampaignChannelEmail,
		EngagementIntent: models.EngagementIntentCold,
		CreatedAt:        utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}

	return campaign, nil
}

// CreateTestSendRecord creates a send record under the given campaign
func (tf *TestFixtures) CreateTestSendRecord(campaign *models.Campaign, contact *models.Contact, entryIndex int) (*models.SendRecord, error) {
	destination, _ := contact.DestinationFor(campaign.Channel)
	record := &models.SendRecord{
		CampaignID:        campaign.ID,
		EntryIndex:        entryIndex,
		ContactID:         contact.ID,
		Name:              contact.FullName(),
		Destination:       destination,
		Subject:           "Quick question",
		Body:              "Hi, wanted to reach out about your team's roadmap.",
		Status:            models.SendStatusSent,
		SentAt:            utils.UTCNow(),
		ProviderMessageID: fmt.Sprintf("provider-%d", rand.Intn(1000000)),
		CreatedAt:         utils.UTCNow(),
		UpdatedAt:         utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create test send record: %w", err)
	}

	return record, nil
}

// CreateTestTemplate creates a template for the given customer
func (tf *TestFixtures) CreateTestTemplate(customerID uint) (*models.Template, error) {
	template := &models.Template{
		UUID:       uuid.New(),
		CustomerID: customerID,
		Name:       "Cold intro",
		Subject:    "Introducing ourselves",
		Body:       "Hi {{first_name}}, I noticed your team is growing.",
		Intent:     models.EngagementIntentCold,
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(template).Error; err != nil {
		return nil, fmt.Errorf("failed to create test template: %w", err)
	}

	return template, nil
}
