package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"security-gateway/middleware/admission"
	"security-gateway/middleware/admission/application"
	"security-gateway/middleware/admission/domain"
)

type config struct {
	listenAddr  string
	upstreamURL string

	rateEnabled   bool
	rateLimit     int
	rateWindow    time.Duration
	rateKeyHeader string
	trustXFF      bool
	addHeaders    bool

	throttleRPS        float64
	throttleBurst      int
	throttleRetryAfter time.Duration

	concurrencyMax     int
	concurrencyTimeout time.Duration

	policyFile  string
	corsOrigins string

	statsBackend       string
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
	statsTrackKeys     bool

	metricsEnabled bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = os.Getenv("UPSTREAM_URL")

	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.rateLimit = getenvIntDefault("RATE_LIMIT", 2000)
	cfg.rateWindow = getenvDurationDefault("RATE_WINDOW", 15*time.Minute)
	cfg.rateKeyHeader = os.Getenv("RATE_KEY_HEADER")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", true)

	cfg.throttleRPS = getenvFloatDefault("THROTTLE_RPS", 0)
	cfg.throttleBurst = getenvIntDefault("THROTTLE_BURST", 50)
	cfg.throttleRetryAfter = getenvDurationDefault("THROTTLE_RETRY_AFTER", 1*time.Second)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.policyFile = os.Getenv("POLICY_FILE")
	cfg.corsOrigins = os.Getenv("CORS_ORIGINS")

	cfg.statsBackend = strings.ToLower(getenvDefault("STATS_BACKEND", "none"))
	cfg.statsRedisAddr = getenvDefault("STATS_REDIS_ADDR", "")
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "admission:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("STATS_BUCKET", "minute")
	cfg.statsTrackKeys = getenvBoolDefault("STATS_TRACK_KEYS", false)

	cfg.metricsEnabled = getenvBoolDefault("METRICS_ENABLED", cfg.statsBackend == "prometheus")

	if cfg.upstreamURL == "" {
		return config{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.rateLimit <= 0 {
		return config{}, errors.New("RATE_LIMIT must be > 0")
	}
	if cfg.rateWindow <= 0 {
		return config{}, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if cfg.statsBackend == "redis" && strings.TrimSpace(cfg.statsRedisAddr) == "" {
		return config{}, errors.New("STATS_REDIS_ADDR is required when STATS_BACKEND=redis")
	}
	return cfg, nil
}

// origins resolve a allow-list CORS: env > arquivo de política > padrão
// de desenvolvimento local.
func (c config) origins(pol policy) []string {
	if c.corsOrigins != "" {
		var out []string
		for _, o := range strings.Split(c.corsOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	if len(pol.Origins) > 0 {
		return pol.Origins
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

// policy é a parte da configuração em forma de lista, carregada de um
// arquivo YAML apontado por POLICY_FILE. Tudo é opcional: listas vazias
// caem nos padrões compilados.
type policy struct {
	Origins []string `yaml:"origins"`

	BotAllow []string `yaml:"bot_allow"`
	BotDeny  []string `yaml:"bot_deny"`

	// Signatures são assinaturas EXTRAS, somadas às padrão.
	Signatures []policyRule `yaml:"signatures"`

	CSP policyCSP `yaml:"csp"`

	SupportContact string `yaml:"support_contact"`
}

type policyRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type policyCSP struct {
	ScriptSrc  []string `yaml:"script_src"`
	StyleSrc   []string `yaml:"style_src"`
	ImgSrc     []string `yaml:"img_src"`
	ConnectSrc []string `yaml:"connect_src"`
}

func loadPolicy(path string) (policy, error) {
	if path == "" {
		return policy{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy{}, err
	}
	var p policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return policy{}, err
	}
	return p, nil
}

// classifier monta o classificador do arquivo de política; sem listas,
// usa as assinaturas padrão.
func (p policy) classifier() (*application.Classifier, error) {
	if len(p.BotAllow) == 0 && len(p.BotDeny) == 0 {
		return application.NewClassifier(nil), nil
	}
	var sigs []application.Signature
	for _, pat := range p.BotAllow {
		sigs = append(sigs, application.Signature{Pattern: pat, Verdict: domain.VerdictAllowedBot})
	}
	for _, pat := range p.BotDeny {
		sigs = append(sigs, application.Signature{Pattern: pat, Verdict: domain.VerdictBlockedBot})
	}
	return application.NewClassifier(sigs), nil
}

// validator soma as assinaturas extras da política às padrão.
func (p policy) validator() (*application.Validator, error) {
	rules := application.DefaultRules()
	for _, pr := range p.Signatures {
		rule, err := application.NewRule(pr.Name, pr.Pattern)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return application.NewValidator(rules), nil
}

func (p policy) cspConfig() admission.CSPConfig {
	cfg := admission.DefaultCSP()
	if len(p.CSP.ScriptSrc) > 0 {
		cfg.ScriptSrc = p.CSP.ScriptSrc
	}
	if len(p.CSP.StyleSrc) > 0 {
		cfg.StyleSrc = p.CSP.StyleSrc
	}
	if len(p.CSP.ImgSrc) > 0 {
		cfg.ImgSrc = p.CSP.ImgSrc
	}
	if len(p.CSP.ConnectSrc) > 0 {
		cfg.ConnectSrc = p.CSP.ConnectSrc
	}
	return cfg
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
