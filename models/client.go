package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name" binding:"required"`
	City      string    `gorm:"size:100" json:"city"`
	State     string    `gorm:"size:2" json:"state"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Email     *string   `gorm:"size:100" json:"email"`
	Cnpj      string    `gorm:"size:20" json:"cnpj"`
	Notes     string    `gorm:"size:500" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name  string  `json:"name" binding:"required"`
	City  string  `json:"city"`
	State string  `json:"state"`
	Phone string  `json:"phone"`
	Email *string `json:"email"`
	Cnpj  string  `json:"cnpj"`
	Notes string  `json:"notes"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func validateNewClient(input *NewClient) error {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	if input.Email != nil && *input.Email != "" && !utils.IsValidEmail(*input.Email) {
		return errors.New("invalid email")
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := validateNewClient(input); err != nil {
		return nil, err
	}

	client := Client{
		Name:  input.Name,
		City:  input.City,
		State: input.State,
		Phone: input.Phone,
		Email: input.Email,
		Cnpj:  input.Cnpj,
		Notes: input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func UpdateClient(ctx context.Context, id uuid.UUID, input *NewClient) (*Client, error) {
	client, err := utils.FetchModelByUid[Client](ctx, id.String())
	if err != nil {
		return nil, err
	}
	if err := validateNewClient(input); err != nil {
		return nil, err
	}

	client.Name = input.Name
	client.City = input.City
	client.State = input.State
	client.Phone = input.Phone
	client.Email = input.Email
	client.Cnpj = input.Cnpj
	client.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func DeleteClient(ctx context.Context, id uuid.UUID) error {
	client, err := utils.FetchModelByUid[Client](ctx, id.String())
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(client).Error
}

func GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return utils.FetchModelByUid[Client](ctx, id.String())
}

func GetClients(ctx context.Context, search string) ([]*Client, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Client{})
	if search != "" {
		pattern := "%" + search + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR city LIKE ?", pattern, pattern)
	}

	var clients []*Client
	if err := dbCtx.Order("name").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}
