package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Deadline.validate(); err != nil {
		return fmt.Errorf("deadline: %w", err)
	}
	if err := c.Reminder.validate(); err != nil {
		return fmt.Errorf("reminder: %w", err)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm: max_tokens must be > 0 (got %d)", c.LLM.MaxTokens)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm: timeout must be > 0 (got %v)", c.LLM.Timeout)
	}
	if c.Slack.UserCacheSize <= 0 {
		return fmt.Errorf("slack: user_cache_size must be > 0 (got %d)", c.Slack.UserCacheSize)
	}
	return nil
}

func (d *DeadlineConfig) validate() error {
	if d.OfficeStartHour < 0 || d.OfficeStartHour > 23 {
		return fmt.Errorf("office_start_hour must be in [0,23] (got %d)", d.OfficeStartHour)
	}
	if d.EarlyHourFloor < 0 || d.EarlyHourFloor > 23 {
		return fmt.Errorf("early_hour_floor must be in [0,23] (got %d)", d.EarlyHourFloor)
	}
	if d.EarlyHourFloor > d.OfficeStartHour {
		return fmt.Errorf("early_hour_floor (%d) must not exceed office_start_hour (%d)", d.EarlyHourFloor, d.OfficeStartHour)
	}
	return nil
}

func (r *ReminderConfig) validate() error {
	if r.Interval <= 0 {
		return fmt.Errorf("interval must be > 0 (got %v)", r.Interval)
	}
	if r.DailyHour < 0 || r.DailyHour > 23 {
		return fmt.Errorf("daily_hour must be in [0,23] (got %d)", r.DailyHour)
	}
	if r.RetainDays <= 0 {
		return fmt.Errorf("retain_days must be > 0 (got %d)", r.RetainDays)
	}
	// A sweep tolerance narrower than half the polling interval would let
	// deadlines slip between ticks.
	if 2*r.Tolerance <= r.Interval {
		return fmt.Errorf("tolerance %v too small for interval %v", r.Tolerance, r.Interval)
	}
	return nil
}
