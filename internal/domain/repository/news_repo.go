package repository

import (
	"time"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
)

// NewsRepository определяет методы для работы с новостными заметками
type NewsRepository interface {
	// CreateBatch сохраняет пачку новостей
	CreateBatch(items []entity.NewsItem) error

	// Latest возвращает последние новости по дате публикации
	Latest(limit int) ([]entity.NewsItem, error)

	// Count возвращает общее число сохранённых новостей
	Count() (int64, error)

	// CountCreatedSince возвращает число новостей, сохранённых после указанного момента
	CountCreatedSince(since time.Time) (int64, error)

	// Oldest возвращает самые старые новости (для прореживания)
	Oldest(limit int) ([]entity.NewsItem, error)

	// DeleteByIDs удаляет новости по списку идентификаторов
	DeleteByIDs(ids []string) error
}
