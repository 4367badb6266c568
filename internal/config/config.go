package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs, bools for feature switches.
type Config struct {
    Env              string // application environment (e.g. "dev", "prod")
    Port             string // HTTP port to listen on
    DBUser           string // database username
    DBPass           string // database password (optional)
    DBHost           string // database host address
    DBPort           string // database port number
    DBName           string // database name
    JWTSecret        string // secret used to sign admin JWTs
    AccessTTLMin     int    // admin access token time‑to‑live in minutes
    BcryptCost       int    // bcrypt cost for password hashing
    AMQPURL          string // RabbitMQ connection URL for mail dispatch (optional)
    ReminderInterval int    // reminder scheduler poll interval in minutes
    SchedulerAuto    bool   // whether the reminder scheduler starts with the server
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values
// fall back to sensible defaults.
func Load() Config {
    return Config{
        Env:              must("APP_ENV"),      // environment (dev/test/prod)
        Port:             must("APP_PORT"),     // port to bind the HTTP server
        DBUser:           must("DB_USER"),      // database user
        DBPass:           os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:           must("DB_HOST"),      // database host
        DBPort:           must("DB_PORT"),      // database port
        DBName:           must("DB_NAME"),      // database name
        JWTSecret:        must("JWT_SECRET"),   // secret used for signing admin JWTs
        AccessTTLMin:     intOr("ACCESS_TOKEN_TTL_MIN", 1440),
        BcryptCost:       intOr("BCRYPT_COST", 10),
        AMQPURL:          os.Getenv("RABBITMQ_URL"), // empty -> log-only mail dispatch
        ReminderInterval: intOr("REMINDER_INTERVAL_MIN", 5),
        SchedulerAuto:    boolOr("SCHEDULER_AUTOSTART", true),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intOr retrieves an integer environment variable, returning def when the
// variable is unset.  A set but malformed value is a fatal error.
func intOr(key string, def int) int {
    s, ok := os.LookupEnv(key)
    if !ok || s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// boolOr retrieves a boolean environment variable, returning def when the
// variable is unset.  A set but malformed value is a fatal error.
func boolOr(key string, def bool) bool {
    s, ok := os.LookupEnv(key)
    if !ok || s == "" {
        return def
    }
    b, err := strconv.ParseBool(s)
    if err != nil {
        log.Fatalf("invalid bool for %s: %q", key, s)
    }
    return b
}
