package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/domain/materials"
)

type MaterialLookup interface {
	GetByID(ctx context.Context, id int64) (*materials.Material, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts low-stock alerts to the admin chat.
type Telegram struct {
	api       sender
	chatID    int64
	materials MaterialLookup
	log       *slog.Logger
}

func NewTelegram(token string, chatID int64, mats MaterialLookup, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot api: %w", err)
	}
	return newTelegram(api, chatID, mats, log), nil
}

func newTelegram(api sender, chatID int64, mats MaterialLookup, log *slog.Logger) *Telegram {
	return &Telegram{api: api, chatID: chatID, materials: mats, log: log}
}

func LowStockText(name string, balance decimal.Decimal) string {
	if balance.IsZero() {
		return fmt.Sprintf("⚠️ Material agotado:\n— %s", name)
	}
	return fmt.Sprintf("⚠️ Stock bajo:\n— %s: quedan %s", name, balance.String())
}

func (t *Telegram) LowStock(ctx context.Context, materialID int64, balance decimal.Decimal) {
	name := fmt.Sprintf("ID:%d", materialID)
	if m, err := t.materials.GetByID(ctx, materialID); err == nil && m != nil {
		name = m.Name
	}

	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, LowStockText(name, balance))); err != nil {
		t.log.Warn("low stock notification failed", "material_id", materialID, "err", err)
	}
}
