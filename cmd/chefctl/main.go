// chefctl — a terminal client for a running souschef service.
//
// Usage:
//
//	chefctl [-server http://localhost:8080] [-session <id>]
//
// Start a session from a catalog recipe, then talk to it: plain text
// is sent as a query, /next, /back, /repeat move between steps,
// /timer sets a countdown.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a7f3d0"))

	timerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)

type client struct {
	base string
	http *http.Client
}

func (c *client) post(path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *client) get(path string, out any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

type queryResult struct {
	Response     string `json:"response"`
	CurrentStep  int    `json:"current_step"`
	TotalSteps   int    `json:"total_steps"`
	IsPaused     bool   `json:"is_paused"`
	ActiveTimers []struct {
		Label            string `json:"label"`
		SecondsRemaining int    `json:"seconds_remaining"`
	} `json:"active_timers"`
}

type savedRecipe struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "souschef server URL")
	sessionID := flag.String("session", "", "resume an existing session")
	flag.Parse()

	c := &client{base: strings.TrimRight(*serverURL, "/"), http: &http.Client{Timeout: 2 * time.Minute}}

	fmt.Println(bannerStyle.Render("chefctl — talking to " + c.base))

	session := *sessionID
	if session == "" {
		var err error
		session, err = pickRecipeAndStart(c)
		if err != nil {
			fmt.Println(errStyle.Render("error: " + err.Error()))
			os.Exit(1)
		}
	}
	fmt.Println(bannerStyle.Render("session " + session))
	fmt.Println(bannerStyle.Render("commands: /next /back /repeat /timer <label> <duration> /state /quit"))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return
		}
		res, err := dispatch(c, session, line)
		if err != nil {
			fmt.Println(errStyle.Render("error: " + err.Error()))
			continue
		}
		render(res)
	}
}

func dispatch(c *client, session, line string) (*queryResult, error) {
	var res queryResult
	switch {
	case line == "/next", line == "/back", line == "/repeat":
		action := map[string]string{"/next": "next", "/back": "previous", "/repeat": "repeat"}[line]
		err := c.post("/session/step", map[string]string{"session_id": session, "action": action}, &res)
		return &res, err
	case strings.HasPrefix(line, "/timer "):
		parts := strings.SplitN(strings.TrimPrefix(line, "/timer "), " ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("usage: /timer <label> <duration>")
		}
		err := c.post("/session/timer", map[string]string{
			"session_id": session, "label": parts[0], "duration": parts[1],
		}, &res)
		return &res, err
	case line == "/state":
		var snap struct {
			CurrentStep     int  `json:"current_step"`
			TotalSteps      int  `json:"total_steps"`
			IsPaused        bool `json:"is_paused"`
			CurrentStepData *struct {
				Instruction string `json:"instruction"`
			} `json:"current_step_data"`
		}
		if err := c.get("/session/"+session, &snap); err != nil {
			return nil, err
		}
		res.CurrentStep = snap.CurrentStep
		res.TotalSteps = snap.TotalSteps
		res.IsPaused = snap.IsPaused
		if snap.CurrentStepData != nil {
			res.Response = snap.CurrentStepData.Instruction
		}
		return &res, nil
	default:
		err := c.post("/session/query", map[string]string{"session_id": session, "query": line}, &res)
		return &res, err
	}
}

func render(res *queryResult) {
	fmt.Println(chatStyle.Render(res.Response))
	status := fmt.Sprintf("step %d/%d", res.CurrentStep, res.TotalSteps)
	if res.IsPaused {
		status += " (paused)"
	}
	for _, t := range res.ActiveTimers {
		status += fmt.Sprintf("  ⏱ %s %ds", t.Label, t.SecondsRemaining)
	}
	fmt.Println(timerStyle.Render(status))
}

// pickRecipeAndStart lists the catalog and starts a session from the
// chosen entry.
func pickRecipeAndStart(c *client) (string, error) {
	var list struct {
		Recipes []savedRecipe `json:"recipes"`
	}
	if err := c.get("/recipes", &list); err != nil {
		return "", err
	}
	if len(list.Recipes) == 0 {
		return "", fmt.Errorf("no recipes in the catalog; ingest one first")
	}

	fmt.Println(stepStyle.Render("recipes:"))
	for _, r := range list.Recipes {
		fmt.Printf("  %d. %s\n", r.ID, r.Title)
	}
	fmt.Print(promptStyle.Render("recipe id> "))

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", fmt.Errorf("no selection")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(scanner.Text()), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid recipe id")
	}

	var snap struct {
		SessionID string `json:"session_id"`
	}
	if err := c.post("/session/start", map[string]int64{"recipe_id": id}, &snap); err != nil {
		return "", err
	}
	return snap.SessionID, nil
}
