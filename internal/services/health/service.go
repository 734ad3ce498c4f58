package health

// Service reports liveness and the static shape of the deployment.
type Service struct {
	model   string
	mode    string
	store   string
	version string
}

// NewService constructs a new health service.
func NewService(model, mode, store, version string) *Service {
	return &Service{model: model, mode: mode, store: store, version: version}
}

// Status returns the health payload. It never includes secrets.
func (s *Service) Status() map[string]any {
	if s == nil {
		return map[string]any{"ok": true}
	}
	out := map[string]any{
		"ok":           true,
		"model":        s.model,
		"analysisMode": s.mode,
		"objectStore":  s.store,
	}
	if s.version != "" {
		out["version"] = s.version
	}
	return out
}
