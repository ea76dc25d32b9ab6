// Package auth provides sessions, CSRF protection and the optional editor
// login for the directory page.
//
// Sessions are stored in the application database through scs and its
// sqlite3store. Each browser session carries the page visits started in it
// (one directory.View per visit) and, in local mode, the editor flag.
//
// It supports two modes:
//   - "none": the page is open to everyone (default)
//   - "local": save and delete require logging in with the editor password
//
// # Configuration
//
//	AUTH_MODE=none                       # Default, no login
//	AUTH_MODE=local                      # Editor login required for writes
//	AUTH_EDITOR_PASSWORD_HASH=<bcrypt>   # Output of the hash-password command
//	AUTH_SESSION_SECRET=<hex-32-bytes>   # CSRF key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=12h            # Session duration
//	AUTH_SECURE_COOKIES=true             # HTTPS-only cookies
//
// # Usage
//
//	sm, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sm.SessionLoadSave())
//	router.Use(auth.NewMiddleware(sm, cfg.Auth).Handler())
//
// Check write permission in handlers:
//
//	if !auth.CanEdit(c) { ... }
package auth
