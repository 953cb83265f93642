package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
)

func TestNotify_PersistEmitEmail(t *testing.T) {
	e := newEnv()
	u := e.db.addUser("sam", models.RoleJobSeeker)

	rec, err := e.notifications.Notify(context.Background(), Notice{
		Recipient: u,
		Type:      models.NotificationJobApproved,
		Title:     "Hello",
		Message:   "World",
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got := e.db.notesFor(u.ID); len(got) != 1 || got[0].ID != rec.ID {
		t.Fatalf("stored = %+v", got)
	}

	events := e.emitter.named(EventNotification)
	if len(events) != 1 || events[0].Room != u.ID.String() || events[0].Data != rec {
		t.Errorf("events = %+v", events)
	}
	emails := e.queue.sent()
	if len(emails) != 1 || emails[0].To != u.Email || emails[0].Subject != "Hello" {
		t.Errorf("emails = %+v", emails)
	}
	if e.recorder.notifications[string(models.NotificationJobApproved)] != 1 {
		t.Errorf("recorded = %v", e.recorder.notifications)
	}
}

func TestNotify_CustomEmailAndNoEmail(t *testing.T) {
	e := newEnv()
	u := e.db.addUser("sam", models.RoleJobSeeker)
	custom := mailer.Email{Subject: "Custom", HTML: "<p>hi</p>"}

	if _, err := e.notifications.Notify(context.Background(), Notice{
		Recipient: u, Type: models.NotificationApplicationStatus, Title: "t", Message: "m", Email: &custom,
	}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if _, err := e.notifications.Notify(context.Background(), Notice{
		Recipient: u, Type: models.NotificationInterviewScheduled, Title: "t", Message: "m", NoEmail: true,
	}); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	emails := e.queue.sent()
	if len(emails) != 1 || emails[0].Subject != "Custom" || emails[0].To != u.Email {
		t.Errorf("emails = %+v", emails)
	}
}

func TestNotify_PersistFailureIsReturned(t *testing.T) {
	e := newEnv()
	u := e.db.addUser("sam", models.RoleJobSeeker)
	e.db.createNoteErr = errors.New("db down")

	_, err := e.notifications.Notify(context.Background(), Notice{Recipient: u, Type: models.NotificationJobApproved, Title: "t", Message: "m"})
	if err == nil {
		t.Fatal("Notify succeeded with a failing store")
	}
	if len(e.emitter.events) != 0 || len(e.queue.sent()) != 0 {
		t.Error("side effects ran after persist failed")
	}
}

func TestNotify_EnqueueFailureIsSwallowed(t *testing.T) {
	e := newEnv()
	u := e.db.addUser("sam", models.RoleJobSeeker)
	e.queue.err = errors.New("queue full")

	if _, err := e.notifications.Notify(context.Background(), Notice{Recipient: u, Type: models.NotificationJobApproved, Title: "t", Message: "m"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(e.db.notesFor(u.ID)) != 1 {
		t.Error("notification not stored")
	}
	if e.recorder.emailFailures["enqueue"] != 1 {
		t.Errorf("email failures = %v", e.recorder.emailFailures)
	}
}

func TestNotify_RejectsUnknownType(t *testing.T) {
	e := newEnv()
	u := e.db.addUser("sam", models.RoleJobSeeker)
	if _, err := e.notifications.Notify(context.Background(), Notice{Recipient: u, Type: "BOGUS"}); err == nil {
		t.Fatal("unknown type accepted")
	}
}

func TestNotificationMutationsAreScopedToRecipient(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.db.addUser("sam", models.RoleJobSeeker)
	other := e.db.addUser("eve", models.RoleEmployer)

	var ids []models.Notification
	for i := 0; i < 2; i++ {
		rec, err := e.notifications.Notify(ctx, Notice{Recipient: owner, Type: models.NotificationJobApproved, Title: "t", Message: "m", NoEmail: true})
		if err != nil {
			t.Fatalf("Notify: %v", err)
		}
		ids = append(ids, *rec)
	}

	// Someone else's calls change nothing.
	if err := e.notifications.MarkAsRead(ctx, ids[0].ID, other.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.notifications.MarkAllAsRead(ctx, other.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.notifications.Delete(ctx, ids[0].ID, other.ID); err != nil {
		t.Fatal(err)
	}
	list, unread, err := e.notifications.List(ctx, owner.ID)
	if err != nil || len(list) != 2 || unread != 2 {
		t.Fatalf("after foreign mutations: %d listed, %d unread, %v", len(list), unread, err)
	}

	if err := e.notifications.MarkAsRead(ctx, ids[0].ID, owner.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := e.notifications.UnreadCount(ctx, owner.ID); n != 1 {
		t.Errorf("unread = %d, want 1", n)
	}
	if err := e.notifications.MarkAllAsRead(ctx, owner.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.notifications.Delete(ctx, ids[1].ID, owner.ID); err != nil {
		t.Fatal(err)
	}
	list, unread, _ = e.notifications.List(ctx, owner.ID)
	if len(list) != 1 || unread != 0 {
		t.Errorf("final: %d listed, %d unread", len(list), unread)
	}

	list, _, _ = e.notifications.List(ctx, other.ID)
	if list == nil {
		t.Error("empty list is nil")
	}
}
