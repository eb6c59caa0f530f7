package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/app"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

func main() {
	var users idList
	var timeout time.Duration
	flag.Var(&users, "user", "user_id to recalibrate (repeatable); default is every user with auto-adjust on")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	a, err := app.Bootstrap()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if len(users) == 0 {
		adjusted, failed, err := a.RecalibrateAll(ctx)
		if err != nil {
			a.Log.Error("recalibration aborted", "error", err, "adjusted", adjusted, "failed", failed)
			os.Exit(1)
		}
		fmt.Printf("recalibrated: adjusted=%d failed=%d\n", adjusted, failed)
		return
	}

	engine := a.PreferenceEngine()
	failed := 0
	for _, raw := range users {
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			fmt.Printf("skip %q: not a user id\n", raw)
			failed++
			continue
		}
		adj, err := engine.AutoAdjust(ctx, id)
		if err != nil {
			fmt.Printf("%s: error: %v\n", id, err)
			failed++
			continue
		}
		fmt.Printf("%s: %.2f -> %.2f (%s)\n", id, adj.From, adj.To, adj.Reason)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
