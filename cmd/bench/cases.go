// README: Bench cases: environment, HTTP surface, multi-turn conversation scripts and chat throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

// turn is one scripted visitor message and the reply type it must produce.
type turn struct {
	query string
	reply string
}

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var (
	inTown  = &point{Lat: 47.3896, Lng: 16.5402}
	farAway = &point{Lat: 47.4979, Lng: 19.0402}
)

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				files, err := migrationFiles(r.cfg.MigrationDir)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, f := range files {
					sql, err := os.ReadFile(f)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					for _, s := range splitSQL(string(sql)) {
						if _, err := r.db.Exec(ctx, s); err != nil {
							return Result{Status: "FAIL", Note: filepath.Base(f) + ": " + err.Error()}
						}
					}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("files=%d", len(files))}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationDir)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if !exists {
						return Result{Status: "FAIL", Note: "missing table: " + t}
					}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("tables=%d", len(tables))}
			},
		},

		httpCase("API: health", http.MethodGet, base+"/health", nil, http.StatusOK),
		httpCase("API: metrics", http.MethodGet, base+"/metrics", nil, http.StatusOK),
		httpCase("API: places default", http.MethodGet, base+"/api/places", nil, http.StatusOK),
		httpCase("API: places nearby", http.MethodGet, base+"/api/places?category=restaurants&lat=47.3896&lng=16.5402&radius_km=1&limit=3", nil, http.StatusOK),
		httpCase("API: places unknown category -> 400", http.MethodGet, base+"/api/places?category=spaceships", nil, http.StatusBadRequest),
		httpCase("API: chat empty query -> 400", http.MethodPost, base+"/api/chat", map[string]any{"query": " "}, http.StatusBadRequest),
		httpCase("API: chat bad token -> 401", http.MethodPost, base+"/api/chat", map[string]any{"query": "szia"}, http.StatusUnauthorized, "Bearer not-a-token"),

		scriptCase("Chat: greeting", nil, 0, []turn{
			{"Szia!", "greeting"},
		}),
		scriptCase("Chat: emergency wins over everything", inTown, 0, []turn{
			{"parkolnék", "ask_plate"},
			{"baleset történt, hívj mentőt!", "emergency"},
		}),
		scriptCase("Chat: full parking flow", inTown, 0, []turn{
			{"parkolni szeretnék", "ask_plate"},
			{"ABC-123", "ask_duration"},
			{"3 órára", "confirm_parking"},
			{"rendben", "ask_save_consent"},
			{"ne mentsd", "parking_success"},
		}),
		scriptCase("Chat: parking info in town offers parking", inTown, 0, []turn{
			{"Hol lehet parkolni?", "parking_offer_user"},
			{"nem, köszönöm", "parking_offer_declined"},
		}),
		scriptCase("Chat: not in town asks arrival time", farAway, 0, []turn{
			{"Hol lehet enni?", "ask_arrival_time"},
			{"kb 14:30-ra", "arrival_time_received"},
		}),
		scriptCase("Chat: abandon parking for sights", inTown, 0, []turn{
			{"parkolnék", "ask_plate"},
			{"inkább mit érdemes megnézni?", "attractions"},
		}),
		scriptCase("Chat: navigation", inTown, 0, []turn{
			{"merre van a Tábornokház?", "offer_navigation"},
			{"hogyan jutok oda?", "ask_destination"},
		}),

		{
			Name: "Perf: chat throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/chat", map[string]any{"query": "Szia!"})
			},
		},
	}
}

func httpCase(name, method, url string, body any, want int, authHeader ...string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = bytes.NewReader(b)
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			for _, h := range authHeader {
				req.Header.Set("Authorization", h)
			}
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			latency := time.Since(start)

			if resp.StatusCode == want {
				return Result{Status: "PASS", Latency: latency}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d want=%d", resp.StatusCode, want)}
		},
	}
}

type chatResponse struct {
	Text      string          `json:"text"`
	ReplyType string          `json:"replyType"`
	SessionID string          `json:"sessionId"`
	NewState  json.RawMessage `json:"newState"`
}

// scriptCase plays turns as a guest, echoing newState and history back the
// way the frontend does.
func scriptCase(name string, loc *point, speed float64, turns []turn) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var (
				state   json.RawMessage
				history []map[string]string
				session string
				total   time.Duration
			)
			for i, t := range turns {
				body := map[string]any{
					"query":   t.query,
					"history": history,
					"context": map[string]any{"location": loc, "speed": speed, "sessionId": session},
				}
				if state != nil {
					body["sessionState"] = state
				}
				start := time.Now()
				out, err := r.chat(ctx, r.cfg.BaseURL+"/api/chat", body)
				total += time.Since(start)
				if err != nil {
					return Result{Status: "FAIL", Note: fmt.Sprintf("turn %d: %v", i+1, err)}
				}
				if out.ReplyType != t.reply {
					return Result{Status: "FAIL", Latency: total,
						Note: fmt.Sprintf("turn %d %q: replyType=%s want=%s", i+1, t.query, out.ReplyType, t.reply)}
				}
				state, session = out.NewState, out.SessionID
				history = append(history,
					map[string]string{"role": "user", "content": t.query},
					map[string]string{"role": "assistant", "content": out.Text})
			}
			return Result{Status: "PASS", Latency: total, Note: fmt.Sprintf("turns=%d", len(turns))}
		},
	}
}

func (r *Runner) chat(ctx context.Context, url string, body any) (*chatResponse, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status=%d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, limited int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				mu.Lock()
				switch {
				case err != nil:
					errCount++
				case resp.StatusCode == http.StatusTooManyRequests:
					limited++
				default:
					count++
				}
				mu.Unlock()
				if err == nil {
					_, _ = io.Copy(io.Discard, resp.Body)
					_ = resp.Body.Close()
				}
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f rate_limited=%d errors=%d", rps, limited, errCount)}
}

func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func extractTables(dir string) ([]string, error) {
	files, err := migrationFiles(dir)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	var tables []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		for _, m := range re.FindAllStringSubmatch(string(b), -1) {
			tables = append(tables, m[1])
		}
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
