package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tlbc-notify-backend/config"
	"tlbc-notify-backend/models"
	"tlbc-notify-backend/utils"

	"github.com/robfig/cron/v3"
)

// JobService owns the scheduled notification jobs: daily birthday
// emails, daily birthday SMS and the annual Easter blast. Each job has
// its own run log partition prefix. Overlapping triggers are skipped,
// never run concurrently against the same partition.
type JobService struct {
	cfg      *config.Config
	members  *MembershipService
	renderer *Renderer

	emailDispatcher  *Dispatcher
	smsDispatcher    *Dispatcher
	easterDispatcher *Dispatcher

	EmailLog  *RunLog
	SMSLog    *RunLog
	EasterLog *RunLog

	cron    *cron.Cron
	running sync.Mutex
}

func NewJobService(cfg *config.Config, members *MembershipService) (*JobService, error) {
	renderer := NewRenderer(cfg.AssetsDir)

	emailLog, err := NewRunLog(cfg.LogsDir, "email-logs")
	if err != nil {
		return nil, err
	}
	smsLog, err := NewRunLog(cfg.LogsDir, "sms-logs")
	if err != nil {
		return nil, err
	}
	easterLog, err := NewRunLog(cfg.LogsDir, "easter-email-logs")
	if err != nil {
		return nil, err
	}

	emailChannel := NewEmailChannel(cfg.SMTPAccounts)
	smsChannel := NewSMSChannel(cfg)

	return &JobService{
		cfg:              cfg,
		members:          members,
		renderer:         renderer,
		emailDispatcher:  NewDispatcher(emailChannel, emailLog, renderer, cfg.MaxAttempts, cfg.BaseBackoff),
		smsDispatcher:    NewDispatcher(smsChannel, smsLog, renderer, cfg.MaxAttempts, cfg.BaseBackoff),
		easterDispatcher: NewDispatcher(emailChannel, easterLog, renderer, cfg.MaxAttempts, cfg.BaseBackoff),
		EmailLog:         emailLog,
		SMSLog:           smsLog,
		EasterLog:        easterLog,
	}, nil
}

// StartScheduler registers the cron entries and starts the scheduler.
func (s *JobService) StartScheduler() {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc(s.cfg.BirthdayEmailCron, func() {
		if _, err := s.RunBirthdayEmails(context.Background()); err != nil {
			log.Printf("Scheduled birthday email job failed: %v", err)
		}
	}); err != nil {
		log.Printf("Invalid BIRTHDAY_EMAIL_CRON %q: %v; birthday email job not scheduled", s.cfg.BirthdayEmailCron, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.BirthdaySMSCron, func() {
		if _, err := s.RunBirthdaySMS(context.Background()); err != nil {
			log.Printf("Scheduled birthday SMS job failed: %v", err)
		}
	}); err != nil {
		log.Printf("Invalid BIRTHDAY_SMS_CRON %q: %v; birthday SMS job not scheduled", s.cfg.BirthdaySMSCron, err)
	}
	if s.cfg.EasterCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.EasterCron, func() {
			if _, err := s.RunEasterBlast(context.Background()); err != nil {
				log.Printf("Scheduled Easter job failed: %v", err)
			}
		}); err != nil {
			log.Printf("Invalid EASTER_CRON %q: %v; Easter job not scheduled", s.cfg.EasterCron, err)
		}
	}

	s.cron.Start()
	log.Println("Notification scheduler started")
}

// StopScheduler stops accepting new scheduled runs. A run already in
// progress completes.
func (s *JobService) StopScheduler() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	log.Println("Notification scheduler stopped")
}

// RunBirthdayEmails sends the birthday email to every member whose
// birthday is today and who has an email address.
func (s *JobService) RunBirthdayEmails(ctx context.Context) (DispatchResult, error) {
	return s.run(ctx, "birthday email", s.emailDispatcher, And(BirthdayToday, HasEmail), s.renderer.RenderBirthdayEmail)
}

// RunBirthdaySMS sends the birthday text to every member whose birthday
// is today and who has a usable phone number.
func (s *JobService) RunBirthdaySMS(ctx context.Context) (DispatchResult, error) {
	return s.run(ctx, "birthday SMS", s.smsDispatcher, And(BirthdayToday, HasPhone), s.renderer.RenderBirthdaySMS)
}

// RunEasterBlast sends the Easter email to every member with an email
// address, regardless of birthday.
func (s *JobService) RunEasterBlast(ctx context.Context) (DispatchResult, error) {
	return s.run(ctx, "Easter email", s.easterDispatcher, HasEmail, s.renderer.RenderEasterEmail)
}

func (s *JobService) run(ctx context.Context, name string, dispatcher *Dispatcher, pred Predicate, render RenderFunc) (DispatchResult, error) {
	if !s.running.TryLock() {
		log.Printf("Skipping %s job: another run is in progress", name)
		return DispatchResult{}, fmt.Errorf("a dispatch run is already in progress")
	}
	defer s.running.Unlock()

	log.Printf("Starting %s job", name)

	all, err := s.members.FetchAllRecipients(ctx)
	if err != nil {
		switch s.cfg.OnFetchError {
		case "abort":
			return DispatchResult{}, err
		case "alert":
			log.Printf("ALERT: %s job could not fetch members: %v", name, err)
			return DispatchResult{}, err
		default: // skip
			log.Printf("Fetch failed (%v); %s job completes with zero sends", err, name)
			return DispatchResult{}, nil
		}
	}

	selected := Filter(all, time.Now().In(utils.WAT), pred)
	log.Printf("%s job: %d of %d members selected", name, len(selected), len(all))

	result := dispatcher.DispatchAll(selected, render)
	log.Printf("%s job completed: sent %d/%d, failed %d", name, result.Success, result.Total, result.Failed)
	return result, nil
}

// SendTestEmail pushes a single ad-hoc birthday email through the normal
// dispatch path for the given address.
func (s *JobService) SendTestEmail(addr string) DispatchResult {
	test := models.Recipient{
		Email:     addr,
		FirstName: "Test",
		LastName:  "User",
		Gender:    "Male",
		BirthDate: utils.DateKey(time.Now()),
	}
	return s.emailDispatcher.DispatchAll([]models.Recipient{test}, s.renderer.RenderBirthdayEmail)
}
