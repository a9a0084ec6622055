package services_test

import (
	"testing"
	"time"

	"tlbc-notify-backend/models"
	"tlbc-notify-backend/services"
	"tlbc-notify-backend/utils"
)

func refDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 0, 0, 0, utils.WAT)
}

func TestFilterPreservesOrder(t *testing.T) {
	recipients := []models.Recipient{
		{ID: 1, Email: "a@x.com"},
		{ID: 2},
		{ID: 3, Email: "c@x.com"},
		{ID: 4, Email: "d@x.com"},
	}

	got := services.Filter(recipients, time.Now(), services.HasEmail)

	if len(got) != 3 {
		t.Fatalf("expected 3 recipients, got %d", len(got))
	}
	wantIDs := []int{1, 3, 4}
	for i, r := range got {
		if r.ID != wantIDs[i] {
			t.Errorf("position %d: expected ID %d, got %d", i, wantIDs[i], r.ID)
		}
		if !services.HasEmail(r, time.Time{}) {
			t.Errorf("recipient %d does not satisfy the predicate", r.ID)
		}
	}
}

func TestBirthdayTodayIgnoresYear(t *testing.T) {
	r := models.Recipient{BirthDate: "1990-03-15"}

	if !services.BirthdayToday(r, refDate(2024, time.March, 15)) {
		t.Error("expected match on 2024-03-15")
	}
	if !services.BirthdayToday(r, refDate(2030, time.March, 15)) {
		t.Error("expected match on 2030-03-15")
	}
	if services.BirthdayToday(r, refDate(2024, time.March, 16)) {
		t.Error("expected no match on 2024-03-16")
	}
}

func TestBirthdayTodayMissingBirthDate(t *testing.T) {
	if services.BirthdayToday(models.Recipient{}, refDate(2024, time.March, 15)) {
		t.Error("recipient without birth date must never match")
	}
	if services.BirthdayToday(models.Recipient{BirthDate: "not-a-date"}, refDate(2024, time.March, 15)) {
		t.Error("unparseable birth date must never match")
	}
}

func TestFilterEmptyInput(t *testing.T) {
	got := services.Filter(nil, time.Now(), services.HasEmail)
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestAndCombinesPredicates(t *testing.T) {
	pred := services.And(services.BirthdayToday, services.HasEmail)
	ref := refDate(2024, time.March, 15)

	withEmail := models.Recipient{BirthDate: "1990-03-15", Email: "a@x.com"}
	withoutEmail := models.Recipient{BirthDate: "1990-03-15"}

	if !pred(withEmail, ref) {
		t.Error("expected birthday recipient with email to match")
	}
	if pred(withoutEmail, ref) {
		t.Error("expected birthday recipient without email not to match")
	}
}

func TestHasPhoneRejectsJunk(t *testing.T) {
	if !services.HasPhone(models.Recipient{PhoneNumber: "+234 803 555 1234"}, time.Time{}) {
		t.Error("expected formatted international number to match")
	}
	if services.HasPhone(models.Recipient{PhoneNumber: ""}, time.Time{}) {
		t.Error("expected empty number not to match")
	}
	if services.HasPhone(models.Recipient{PhoneNumber: "no-phone"}, time.Time{}) {
		t.Error("expected non-numeric value not to match")
	}
}
