package repository

import (
	"context"
	"time"

	"imagestyle/internal/domain"

	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

type clientModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Phone     *string   `gorm:"column:phone"`
	Email     *string   `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (clientModel) TableName() string { return "clients" }

func toDomainClient(m clientModel) *domain.Client {
	var phone, email string
	if m.Phone != nil {
		phone = *m.Phone
	}
	if m.Email != nil {
		email = *m.Email
	}
	return &domain.Client{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     phone,
		Email:     email,
		CreatedAt: m.CreatedAt,
	}
}

func toClientModel(c *domain.Client) clientModel {
	var phone, email *string
	if c.Phone != "" {
		v := c.Phone
		phone = &v
	}
	if c.Email != "" {
		v := normalizeEmail(c.Email)
		email = &v
	}
	return clientModel{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     phone,
		Email:     email,
		CreatedAt: c.CreatedAt,
	}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	m := toClientModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*c = *toDomainClient(m)
	return nil
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	var rows []clientModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Client, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainClient(m))
	}
	return out, nil
}

func (r *ClientRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&clientModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
