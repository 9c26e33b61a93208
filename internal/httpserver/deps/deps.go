package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkring/linkring/internal/board"
	"github.com/linkring/linkring/internal/identity"
	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/replica"
	"github.com/linkring/linkring/internal/session"
	redisstore "github.com/linkring/linkring/internal/store/redis"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedCIDRS []string         // IPs allowed to access operational endpoints
	AllowedHosts []string         // Host headers allowed on operational endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	BaseCtx context.Context // app lifetime context, owns session watchers

	RedisClient *redis.Client      // Redis client connection
	Store       *redisstore.Store  // remote document store
	Board       *replica.Board     // shared board replica
	BoardSvc    *board.Service     // mutation protocol
	Sessions    *session.Manager   // live user sessions
	Identity    *identity.Provider // sign-in / token verification

	SeedReloadTrigger chan struct{} // Channel to trigger manual seed reload (nil if seeding disabled)

	RateBurst     int // rate limit burst for mutation endpoints
	RateRefillMin int // rate limit refill per IP per minute
}
