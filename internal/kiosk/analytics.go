package kiosk

import (
	"context"
	"log"
	"time"
)

// AnalyticsSink принимает записи аналитики не блокируя ротатор.
// Записи уходят на бэкенд в фоне; при переполненной очереди или
// недоступной сети запись теряется — показ важнее журнала.
type AnalyticsSink struct {
	gw    Gateway
	queue chan Interaction
}

// NewAnalyticsSink создаёт новый sink с буфером на buffer записей
func NewAnalyticsSink(gw Gateway, buffer int) *AnalyticsSink {
	if buffer <= 0 {
		buffer = 64
	}
	return &AnalyticsSink{
		gw:    gw,
		queue: make(chan Interaction, buffer),
	}
}

// Offer ставит запись в очередь. Никогда не блокирует.
func (s *AnalyticsSink) Offer(interaction Interaction) {
	select {
	case s.queue <- interaction:
	default:
		log.Printf("[Analytics] Очередь переполнена, запись %s/%s потеряна",
			interaction.Type, interaction.AdID)
	}
}

// Run отправляет записи из очереди до отмены контекста
func (s *AnalyticsSink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case interaction := <-s.queue:
			sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.gw.RecordInteraction(sendCtx, interaction); err != nil {
				log.Printf("[Analytics] Не удалось отправить запись %s/%s: %v",
					interaction.Type, interaction.AdID, err)
			}
			cancel()
		}
	}
}
