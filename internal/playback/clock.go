package playback

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTickHz matches the cadence at which browsers report playback
// position while media plays.
const DefaultTickHz = 4

// ClockOptions configures a ClockPlayer.
type ClockOptions struct {
	// Duration of the simulated track; 0 leaves it unknown until
	// SetDuration is called.
	Duration float64
	// TickHz is how often Run reports the position. Default: DefaultTickHz.
	TickHz float64
	Limits RateLimits
	// Now is the clock source. Default: time.Now.
	Now func() time.Time
}

type clockSub struct {
	id int
	fn func(Event)
}

// ClockPlayer is a Player without audio: the position follows the wall
// clock scaled by the playback rate while playing. It stands in for a real
// media element wherever only the transport behaviour matters.
//
// All methods are safe for concurrent use. Subscribers are called without
// the player lock held, from the goroutine that caused the event.
type ClockPlayer struct {
	mu       sync.Mutex
	position float64
	duration float64
	hasDur   bool
	playing  bool
	rate     float64
	limits   RateLimits
	subs     []clockSub
	nextID   int

	tickHz float64
	now    func() time.Time
}

var _ Player = (*ClockPlayer)(nil)

// NewClockPlayer returns a paused player at position 0.
func NewClockPlayer(opts ClockOptions) *ClockPlayer {
	if opts.TickHz <= 0 {
		opts.TickHz = DefaultTickHz
	}
	if opts.Limits == (RateLimits{}) {
		opts.Limits = DefaultRateLimits
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := &ClockPlayer{
		rate:   1,
		limits: opts.Limits,
		tickHz: opts.TickHz,
		now:    opts.Now,
	}
	if opts.Duration > 0 {
		p.duration, p.hasDur = opts.Duration, true
	}
	return p
}

func (p *ClockPlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *ClockPlayer) Duration() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration, p.hasDur
}

func (p *ClockPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *ClockPlayer) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// SetRate sets the playback rate, clamped to the player's limits.
func (p *ClockPlayer) SetRate(r float64) {
	p.mu.Lock()
	p.rate = p.limits.Clamp(r)
	p.mu.Unlock()
}

// SetDuration makes the track duration known and announces it.
func (p *ClockPlayer) SetDuration(d float64) {
	p.mu.Lock()
	p.duration, p.hasDur = d, d > 0
	ev := Event{Kind: EventDuration, Position: p.position, Duration: d}
	p.mu.Unlock()
	p.emit(ev)
}

func (p *ClockPlayer) Play() {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = true
	ev := Event{Kind: EventPlay, Position: p.position, Duration: p.duration}
	p.mu.Unlock()
	p.emit(ev)
}

func (p *ClockPlayer) Pause() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = false
	ev := Event{Kind: EventPause, Position: p.position, Duration: p.duration}
	p.mu.Unlock()
	p.emit(ev)
}

// Seek moves to seconds, clamped to [0, duration], and reports the new
// position as a tick.
func (p *ClockPlayer) Seek(seconds float64) {
	p.mu.Lock()
	p.position = p.clamp(seconds)
	ev := Event{Kind: EventTick, Position: p.position, Duration: p.duration}
	p.mu.Unlock()
	p.emit(ev)
}

// Advance moves the position forward by d of wall time scaled by the rate.
// Reaching the end of the track pauses the player. Nothing happens while
// paused.
func (p *ClockPlayer) Advance(d time.Duration) {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	p.position = p.clamp(p.position + d.Seconds()*p.rate)
	events := []Event{{Kind: EventTick, Position: p.position, Duration: p.duration}}
	if p.hasDur && p.position >= p.duration {
		p.playing = false
		events = append(events, Event{Kind: EventPause, Position: p.position, Duration: p.duration})
	}
	p.mu.Unlock()

	for _, ev := range events {
		p.emit(ev)
	}
}

// Run advances the position at the configured tick rate until ctx is done.
func (p *ClockPlayer) Run(ctx context.Context) error {
	limiter := rate.NewLimiter(rate.Limit(p.tickHz), 1)
	last := p.now()
	for {
		if err := limiter.Wait(ctx); err != nil {
			// Wait also fails early when the next tick would land past the
			// deadline of ctx.
			<-ctx.Done()
			return nil
		}
		now := p.now()
		p.Advance(now.Sub(last))
		last = now
	}
}

func (p *ClockPlayer) Subscribe(fn func(Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	p.subs = append(p.subs, clockSub{id: id, fn: fn})
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

func (p *ClockPlayer) emit(ev Event) {
	p.mu.Lock()
	subs := p.subs
	p.mu.Unlock()
	for _, s := range subs {
		s.fn(ev)
	}
}

// clamp must be called with p.mu held.
func (p *ClockPlayer) clamp(seconds float64) float64 {
	if seconds < 0 {
		return 0
	}
	if p.hasDur && seconds > p.duration {
		return p.duration
	}
	return seconds
}
