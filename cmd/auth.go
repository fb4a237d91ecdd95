package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/services"
	"github.com/softcover/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// SessionLogin authenticates with the backend and announces the new session.
func (r *Runner) SessionLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if password == "" {
		var err error
		if password, err = r.promptSecret("Password: "); err != nil {
			return err
		}
	}

	r.logger.Info("logging in", "email", email)

	token, err := r.session.Login(ctx, email, password)
	if err != nil {
		return err
	}

	snap := r.session.Snapshot()
	if snap.User != nil {
		r.writePlain("✓ Logged in as %s\n", snap.User.Username)
	} else {
		r.writePlain("✓ Logged in\n")
	}

	if token != "" && r.config.Auth.Mode == "token" {
		r.writePlain("Token issued. Save it under [auth] token in config.toml to reuse this session.\n")
	}

	return nil
}

// SessionLogout ends the session remotely when possible and always clears it locally.
func (r *Runner) SessionLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(ctx); err != nil {
		r.logger.Warn("remote logout failed, session cleared locally", "error", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// SessionRegister creates a new account. It never logs the new account in.
func (r *Runner) SessionRegister(ctx context.Context, cmd *cli.Command) error {
	password := cmd.String("password")
	if password == "" {
		var err error
		if password, err = r.promptSecret("Password: "); err != nil {
			return err
		}
	}

	reg := models.Registration{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: password,
		Name:     cmd.String("name"),
	}

	if err := r.session.Register(ctx, reg); err != nil {
		return err
	}

	r.writePlain("✓ Account created for %s\n", reg.Username)
	r.writePlain("Run 'shelf session login' to sign in.\n")
	return nil
}

// SessionStatus resolves the session against the backend and reports it.
func (r *Runner) SessionStatus(ctx context.Context, cmd *cli.Command) error {
	snap := r.session.Resolve(ctx)

	if cmd.Bool("json") {
		payload := map[string]any{"state": snap.State.String()}
		if snap.User != nil {
			payload["user"] = snap.User
		}
		if snap.Err != nil {
			payload["error"] = snap.Err.Error()
		}
		return r.writeJSON(payload, true)
	}

	r.writePlain("Session: %s\n", snap.State)
	if snap.User != nil {
		r.writePlain("User: %s <%s>\n", snap.User.Username, snap.User.Email)
	}
	if snap.Err != nil {
		r.writePlain("Last error: %v\n", snap.Err)
	}
	return nil
}

// SessionImport seeds the cookie jar from a browser "Copy as cURL" command so
// shelf joins an existing web session instead of logging in again.
func (r *Runner) SessionImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var curlSession *shared.CurlSession
	var err error

	if curlFile != "" {
		curlSession, err = shared.ParseCurlFile(curlFile)
	} else {
		curlSession, err = shared.ParseCurlCommand([]byte(curlCmd))
	}
	if err != nil {
		return fmt.Errorf("failed to parse cURL command: %w", err)
	}

	cookies := curlSession.Cookies()
	if len(cookies) == 0 {
		return fmt.Errorf("%w: cURL command carries no cookies", shared.ErrInvalidArgument)
	}

	authURL, err := url.Parse(r.config.Endpoints.Auth)
	if err != nil || authURL.Host == "" {
		return fmt.Errorf("%w: cannot determine backend host from auth endpoint", shared.ErrInvalidConfig)
	}

	jarPath, err := r.config.CookieJarPath()
	if err != nil {
		return fmt.Errorf("failed to locate cookie jar: %w", err)
	}

	jar, err := services.NewFileJar(jarPath)
	if err != nil {
		return fmt.Errorf("failed to open cookie jar: %w", err)
	}
	jar.Seed(authURL.Host, cookies)

	r.logger.Info("session cookies imported", "host", authURL.Host, "cookies", len(cookies))

	r.writePlain("✓ Imported %d cookie(s) for %s\n", len(cookies), authURL.Host)
	r.writePlain("Run 'shelf session status' to verify the session.\n")
	return nil
}

// promptSecret reads a line from stdin. The terminal echoes the input, so the
// --password flag is preferred in scripts.
func (r *Runner) promptSecret(prompt string) (string, error) {
	r.writePlain("%s", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
