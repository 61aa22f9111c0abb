package kiosk

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// State — локальное состояние киоска, переживающее перезапуски.
// Аналог localStorage дисплея: пара ключей в одном JSON-файле.
type State struct {
	DeviceID       string          `json:"device_id,omitempty"`   // канонический ID после привязки оператором
	RickshawID     string          `json:"rickshaw_id,omitempty"` // сгенерированный запасной ID
	CachedPlaylist json.RawMessage `json:"cached_playlist,omitempty"`
}

// StateStore читает и пишет состояние киоска в JSON-файл
type StateStore struct {
	path string
}

// NewStateStore создаёт хранилище состояния по указанному пути
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load читает состояние; отсутствующий или битый файл — пустое состояние
func (s *StateStore) Load() *State {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return &State{}
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Printf("[StateStore] Битый файл состояния %s, начинаем заново: %v", s.path, err)
		return &State{}
	}
	return &state
}

// Save атомарно записывает состояние
func (s *StateStore) Save(state *State) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("каталог состояния: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("запись состояния: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// ResolveIdentity определяет идентификатор устройства. Порядок:
// явный --device-id, затем сохранённый канонический ID (с проверкой на
// сервере), затем ранее сгенерированный запасной ID, иначе генерируется
// новый. Ни один сбой здесь не фатален — киоск всегда получает имя.
func ResolveIdentity(ctx context.Context, gw Gateway, store *StateStore, explicit string) string {
	state := store.Load()

	// Остатки кеша плейлиста больше не нужны: контент всегда тянется с API
	if state.CachedPlaylist != nil {
		state.CachedPlaylist = nil
		if err := store.Save(state); err != nil {
			log.Printf("[Identity] Не удалось очистить кеш плейлиста: %v", err)
		}
	}

	if explicit != "" {
		state.DeviceID = explicit
		if err := store.Save(state); err != nil {
			log.Printf("[Identity] Не удалось сохранить заданный ID: %v", err)
		}
		log.Printf("[Identity] Используем заданный ID устройства: %s", explicit)
		return explicit
	}

	if state.DeviceID != "" {
		device, err := gw.Device(ctx, state.DeviceID)
		if err == nil {
			log.Printf("[Identity] Устройство %s (%q) подтверждено сервером", device.ID, device.Name)
			return device.ID
		}
		log.Printf("[Identity] Сервер не подтвердил ID %s: %v", state.DeviceID, err)
	}

	if state.RickshawID != "" {
		log.Printf("[Identity] Используем сохранённый запасной ID: %s", state.RickshawID)
		return state.RickshawID
	}

	generated := "rickshaw-" + uuid.NewString()[:7]
	state.RickshawID = generated
	if err := store.Save(state); err != nil {
		log.Printf("[Identity] Не удалось сохранить сгенерированный ID: %v", err)
	}
	log.Printf("[Identity] Сгенерирован новый ID устройства: %s", generated)
	return generated
}
