package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPrefix     = "prefix"
	KeyPath       = "path"
	KeyRoute      = "route"
	KeyLocation   = "location"
	KeyIssueKind  = "issue_kind"
	KeyIssues     = "issues"
	KeyDocuments  = "documents"
	KeyFile       = "file"
	KeySource     = "source"
	KeyBranch     = "branch"
	KeySubject    = "subject"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Prefix(p string) slog.Attr       { return slog.String(KeyPrefix, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func Location(l string) slog.Attr     { return slog.String(KeyLocation, l) }
func IssueKind(k string) slog.Attr    { return slog.String(KeyIssueKind, k) }
func Issues(n int) slog.Attr          { return slog.Int(KeyIssues, n) }
func Documents(n int) slog.Attr       { return slog.Int(KeyDocuments, n) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
