package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/arena/client/game"
	"github.com/cbodonnell/arena/client/input"
	"github.com/cbodonnell/arena/client/network"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/version"
)

const (
	// FrameRate is how many presentation frames the bot simulates per second
	FrameRate = 60
)

func main() {
	serverURL := flag.String("server", network.DefaultServerURL, "arena server url")
	code := flag.String("code", "", "session code to join, random when empty")
	playerID := flag.String("player", "", "player id, random when empty")
	msgpack := flag.Bool("msgpack", false, "request msgpack encoded responses")
	shootEvery := flag.Duration("shoot-every", 2500*time.Millisecond, "how often the bot tries to shoot")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)
	log.Info("Starting arena bot version %s", version.Get())

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if *code == "" {
		*code = game.GenerateCode(rng)
	}

	transport, err := network.NewHTTPClient(network.NewHTTPClientOptions{
		BaseURL: *serverURL,
		Msgpack: *msgpack,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create client: %v", err))
	}

	session, err := game.NewSession(game.NewSessionOptions{
		Transport: transport,
		Code:      *code,
		PlayerID:  *playerID,
		Scheduler: network.DefaultSchedulerOptions(),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create session: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Start(ctx); err != nil {
		log.Error("Failed to start session: %v", err)
		os.Exit(1)
	}
	log.Info("Playing in session %s as %s", session.Code(), session.PlayerID())

	bot := newBot(rng, *shootEvery)
	frames := time.NewTicker(time.Second / FrameRate)
	defer frames.Stop()
	status := time.NewTicker(time.Second)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			leave(session)
			return
		case <-session.Done():
			if err := session.Err(); err != nil {
				log.Error("Session ended: %v", err)
				os.Exit(1)
			}
			return
		case now := <-frames.C:
			in, throw := bot.next(now)
			session.Frame(now, in)
			if throw {
				throwCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				if _, err := session.Throw(throwCtx); err != nil {
					log.Debug("Failed to throw: %v", err)
				}
				cancel()
			}
		case <-status.C:
			view := session.View()
			log.Info("health=%d explosives=%d players=%d projectiles=%d ping=%.0fms",
				view.Player.Health, view.Player.ExplosiveCount, len(view.RemotePlayers)+1, len(view.Projectiles), view.Ping)
			log.Debug("delivery: %+v", view.Delivery)
		}
	}
}

func leave(session *game.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := session.Leave(ctx); err != nil {
		log.Error("Failed to leave: %v", err)
	}
}

// bot wanders in a random direction that changes every second or two, keeps
// turning its aim and shoots on a fixed period.
type bot struct {
	rng        *rand.Rand
	shootEvery time.Duration
	state      input.State
	changeAt   time.Time
	nextShot   time.Time
	nextThrow  time.Time
}

func newBot(rng *rand.Rand, shootEvery time.Duration) *bot {
	return &bot{rng: rng, shootEvery: shootEvery}
}

func (b *bot) next(now time.Time) (input.State, bool) {
	if now.After(b.changeAt) {
		b.state = input.State{
			Up:    b.rng.Intn(3) == 0,
			Down:  b.rng.Intn(3) == 0,
			Left:  b.rng.Intn(3) == 0,
			Right: b.rng.Intn(3) == 0,
		}.WithAim(float64(b.rng.Intn(360)))
		b.changeAt = now.Add(time.Second + time.Duration(b.rng.Intn(1000))*time.Millisecond)
	}

	in := b.state
	in.Shoot = false
	if now.After(b.nextShot) {
		in.Shoot = true
		b.nextShot = now.Add(b.shootEvery)
	}

	throw := false
	if now.After(b.nextThrow) {
		throw = !b.nextThrow.IsZero()
		b.nextThrow = now.Add(time.Duration(5+b.rng.Intn(10)) * time.Second)
	}
	return in, throw
}
