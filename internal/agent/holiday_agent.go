package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/service"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
)

// HolidayCodeAgent issues one gift code per holiday per day. The code text
// is derived from the holiday key and the date, so a rerun on the same day
// collides with the existing code and is skipped.
type HolidayCodeAgent struct {
	giftCodes service.GiftCodeService
	llm       *LLMClient
	now       func() time.Time
}

func NewHolidayCodeAgent(giftCodes service.GiftCodeService) *HolidayCodeAgent {
	agent := &HolidayCodeAgent{
		giftCodes: giftCodes,
		now:       time.Now,
	}

	llm, err := NewLLMClient(context.Background())
	if err != nil {
		log.Printf("⚠️ [holiday-code-agent] LLM disabled, using fallback greetings: %v", err)
	} else {
		agent.llm = llm
	}

	return agent
}

func (a *HolidayCodeAgent) GetName() string {
	return "holiday-code-agent"
}

func (a *HolidayCodeAgent) GetSchedule() string {
	// Daily at 06:00 server time.
	return "0 6 * * *"
}

func (a *HolidayCodeAgent) Execute(ctx context.Context) error {
	today := a.now()

	holiday, ok := holidayOn(today)
	if !ok {
		log.Printf("📝 [%s] No holiday today, nothing to issue", a.GetName())
		return nil
	}

	code := fmt.Sprintf("HOLIDAY-%s-%s", holiday.Key, today.Format("20060102"))
	description := a.greeting(ctx, holiday)

	// Codes expire at the end of the holiday.
	year, month, day := today.Date()
	expiresAt := time.Date(year, month, day, 0, 0, 0, 0, today.Location()).AddDate(0, 0, 1)

	_, err := a.giftCodes.Issue(ctx, service.IssueInput{
		Code:        code,
		Points:      holiday.Points,
		ExpiresAt:   expiresAt,
		Description: description,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrDuplicateCode) {
			log.Printf("📝 [%s] Code %s already issued today", a.GetName(), code)
			return nil
		}
		return err
	}

	log.Printf("🎁 [%s] Issued %s worth %d points for %s", a.GetName(), code, holiday.Points, holiday.Name)
	return nil
}

func (a *HolidayCodeAgent) greeting(ctx context.Context, holiday Holiday) string {
	if a.llm == nil {
		return holiday.Greeting
	}

	greeting, err := a.llm.HolidayGreeting(ctx, holiday.Name)
	if err != nil || greeting == "" {
		log.Printf("⚠️ [%s] LLM greeting failed, using fallback: %v", a.GetName(), err)
		return holiday.Greeting
	}

	return greeting
}
