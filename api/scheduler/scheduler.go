// Package scheduler runs the periodic background jobs: currently the daily
// warranty digest email.
package scheduler

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/gun-locker-api/databases"
	"github.com/linesmerrill/gun-locker-api/models"
	"github.com/linesmerrill/gun-locker-api/stats"
	templates "github.com/linesmerrill/gun-locker-api/templates/html"
)

// defaultDigestSpec fires the warranty digest daily at 13:00 UTC
const defaultDigestSpec = "0 13 * * *"

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron       *cron.Cron
	UDB        databases.UserDatabase
	FDB        databases.FirearmDatabase
	GDB        databases.GearDatabase
	ODB        databases.OpticDatabase
	ADB        databases.AccessoryDatabase
	digestSpec string
}

// NewScheduler creates a new scheduler instance over the connected database.
// digestSpec overrides the daily warranty digest cron expression when set.
func NewScheduler(db databases.DatabaseHelper, digestSpec string) *Scheduler {
	if digestSpec == "" {
		digestSpec = defaultDigestSpec
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		UDB:        databases.NewUserDatabase(db),
		FDB:        databases.NewFirearmDatabase(db),
		GDB:        databases.NewGearDatabase(db),
		ODB:        databases.NewOpticDatabase(db),
		ADB:        databases.NewAccessoryDatabase(db),
		digestSpec: digestSpec,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc(s.digestSpec, s.sendWarrantyDigests)
	if err != nil {
		zap.S().Errorw("failed to register warranty digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("warranty digest scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("warranty digest scheduler stopped")
}

// sendWarrantyDigests emails each user whose locker has warranties expired or
// expiring within the alert window
func (s *Scheduler) sendWarrantyDigests() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	users, err := s.UDB.Find(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("failed to list users for warranty digest", "error", err)
		return
	}

	sent := 0
	for _, user := range users {
		alerts, err := s.warrantyAlertsForUser(ctx, user)
		if err != nil {
			zap.S().Errorw("failed to collect warranty alerts",
				"user", user.ID.Hex(),
				"error", err)
			continue
		}
		if len(alerts) == 0 {
			continue
		}
		if err := sendDigestEmail(user.Email, alerts); err != nil {
			zap.S().Errorw("failed to send warranty digest",
				"user", user.ID.Hex(),
				"error", err)
			continue
		}
		sent++
	}
	zap.S().Infow("warranty digest run complete",
		"users", len(users),
		"sent", sent)
}

func (s *Scheduler) warrantyAlertsForUser(ctx context.Context, user models.User) ([]stats.WarrantyAlert, error) {
	filter := bson.M{"user": user.ID}
	var inv stats.Inventory
	var err error

	if inv.Firearms, err = s.FDB.Find(ctx, filter); err != nil {
		return nil, err
	}
	if inv.Gear, err = s.GDB.Find(ctx, filter); err != nil {
		return nil, err
	}
	if inv.Optics, err = s.ODB.Find(ctx, filter); err != nil {
		return nil, err
	}
	if inv.Accessories, err = s.ADB.Find(ctx, filter); err != nil {
		return nil, err
	}
	return stats.WarrantyAlerts(inv, time.Now().UTC()), nil
}

func sendDigestEmail(toEmail string, alerts []stats.WarrantyAlert) error {
	from := mail.NewEmail("Gun Locker", "no-reply@gunlocker.app")
	subject := "Warranty Digest"
	to := mail.NewEmail("", toEmail)
	plain := "Some of your items have warranties that are expired or expiring soon. Review them in your locker."
	html := templates.RenderWarrantyDigest(alerts)
	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	_, err := client.Send(msg)
	return err
}
