package advice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"maitred/internal/models"
	"maitred/internal/pos"
	"maitred/internal/store"
)

// Section names the advisor accepts.
type Section string

const (
	SectionMenu    Section = "Menu"
	SectionStaff   Section = "Staff"
	SectionKitchen Section = "Kitchen"
	SectionStock   Section = "Stock"
)

var ErrUnknownSection = errors.New("unknown advice section")

// Advisor asks the configured language model for free-text operational
// advice about one section of the restaurant. A single prompt/response
// round trip: no retries, no caching.
type Advisor struct {
	llm    llms.Model
	menu   *pos.MenuService
	stock  *pos.StockService
	staff  *pos.StaffService
	orders *pos.OrderService
}

// New creates an advisor reading its context summaries from the store.
func New(llm llms.Model, s *store.Store) *Advisor {
	return &Advisor{
		llm:    llm,
		menu:   pos.NewMenuService(s),
		stock:  pos.NewStockService(s),
		staff:  pos.NewStaffService(s),
		orders: pos.NewOrderService(s),
	}
}

// Advise generates advice for one section, grounding the prompt in a short
// summary of the current records.
func (a *Advisor) Advise(ctx context.Context, section Section) (string, error) {
	prompt, err := a.buildPrompt(section)
	if err != nil {
		return "", err
	}
	return llms.GenerateFromSinglePrompt(ctx, a.llm, prompt)
}

func (a *Advisor) buildPrompt(section Section) (string, error) {
	var sb strings.Builder
	sb.WriteString("You advise the operator of a single restaurant. Be concrete and brief.\n")

	switch section {
	case SectionMenu:
		items, err := a.menu.List()
		if err != nil {
			return "", err
		}
		counts := make(map[models.MenuCategory]int)
		unavailable := 0
		for _, it := range items {
			counts[it.Category]++
			if !it.Available {
				unavailable++
			}
		}
		fmt.Fprintf(&sb, "Menu: %d items (%d unavailable), per category: %v.\n", len(items), unavailable, counts)
		sb.WriteString("Suggest improvements to the menu composition and pricing.")

	case SectionStock:
		low, err := a.stock.Low()
		if err != nil {
			return "", err
		}
		names := make([]string, 0, len(low))
		for _, it := range low {
			names = append(names, fmt.Sprintf("%s (%d%%)", it.Name, it.Level))
		}
		fmt.Fprintf(&sb, "Stock items at or below threshold: %s.\n", strings.Join(names, ", "))
		sb.WriteString("Advise on restocking priorities.")

	case SectionKitchen:
		active, err := a.orders.Active()
		if err != nil {
			return "", err
		}
		waiting, cooking := 0, 0
		for _, o := range active {
			switch o.Status {
			case models.OrderStatusWaiting:
				waiting++
			case models.OrderStatusCooking:
				cooking++
			}
		}
		fmt.Fprintf(&sb, "Kitchen: %d orders waiting, %d cooking.\n", waiting, cooking)
		sb.WriteString("Advise on throughput and ticket times.")

	case SectionStaff:
		users, err := a.staff.List()
		if err != nil {
			return "", err
		}
		counts := make(map[models.Role]int)
		for _, u := range users {
			counts[u.Role]++
		}
		fmt.Fprintf(&sb, "Staff by role: %v.\n", counts)
		sb.WriteString("Advise on staffing and role coverage.")

	default:
		return "", ErrUnknownSection
	}

	return sb.String(), nil
}

// NewLLM initializes the OpenAI-backed model from the environment.
func NewLLM() (llms.Model, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}
	return openai.New(
		openai.WithModel("gpt-4-turbo-preview"),
		openai.WithToken(apiKey),
	)
}
