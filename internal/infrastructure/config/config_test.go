package config

import (
	"context"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.WriteDB.Database != "usuarios_write" {
		t.Errorf("expected default write db name, got %q", cfg.WriteDB.Database)
	}
	if cfg.ReadDB.Database != "usuarios_read" {
		t.Errorf("expected default read db name, got %q", cfg.ReadDB.Database)
	}
	if cfg.Rabbit.RetryAttempts != 3 {
		t.Errorf("expected 3 retry attempts, got %d", cfg.Rabbit.RetryAttempts)
	}
	if cfg.Rabbit.RetryInterval != 5*time.Second {
		t.Errorf("expected 5s retry interval, got %v", cfg.Rabbit.RetryInterval)
	}
	if cfg.Outbox.Interval != time.Second {
		t.Errorf("expected 1s relay interval, got %v", cfg.Outbox.Interval)
	}
	if cfg.Rabbit.QueueUserCreated != "user-created" {
		t.Errorf("expected default queue name, got %q", cfg.Rabbit.QueueUserCreated)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_WRITE_URI", "mongodb://write-host:27017")
	t.Setenv("MONGO_WRITE_DB", "users_w")
	t.Setenv("MONGO_READ_DB", "users_r")
	t.Setenv("RABBIT_URL", "amqp://broker:5672/")
	t.Setenv("RABBIT_QUEUE", "created-q")
	t.Setenv("RABBIT_QUEUE_UPDATE", "updated-q")
	t.Setenv("RABBIT_QUEUE_ACTIVITY", "activity-q")
	t.Setenv("RABBIT_QUEUE_UPDATE_ROLE", "role-q")
	t.Setenv("RABBIT_QUEUE_ADD_ROLE_PERMISSION", "perm-add-q")
	t.Setenv("RABBIT_QUEUE_REMOVE_ROLE_PERMISSION", "perm-remove-q")
	t.Setenv("OUTBOX_RELAY_BATCH", "25")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.WriteDB.URI != "mongodb://write-host:27017" || cfg.WriteDB.Database != "users_w" {
		t.Errorf("unexpected write db config: %+v", cfg.WriteDB)
	}
	if cfg.ReadDB.Database != "users_r" {
		t.Errorf("unexpected read db config: %+v", cfg.ReadDB)
	}
	if cfg.Rabbit.QueueUserCreated != "created-q" || cfg.Rabbit.QueuePermissionRemoved != "perm-remove-q" {
		t.Errorf("unexpected queue config: %+v", cfg.Rabbit)
	}
	if cfg.Outbox.BatchSize != 25 {
		t.Errorf("expected batch size 25, got %d", cfg.Outbox.BatchSize)
	}
}
