package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Operator представляет пользователя контроллера (админ-панели)
type Operator struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Operator) TableName() string {
	return "operators"
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (o *Operator) BeforeSave(tx *gorm.DB) error {
	if len(o.Password) > 0 && !strings.HasPrefix(o.Password, "$2a$") &&
		!strings.HasPrefix(o.Password, "$2b$") && !strings.HasPrefix(o.Password, "$2y$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[Operator.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", o.Email, err)
			return err
		}
		o.Password = string(hashed)
	}
	return nil
}

// CheckPassword сравнивает пароль с сохранённым хешем
func (o *Operator) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(password)) == nil
}
