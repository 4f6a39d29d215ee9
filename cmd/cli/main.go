package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harishas/autofolio/internal/identity"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "portfolio":
		handlePortfolio(args)
	case "public":
		handlePublic(args)
	case "inbox":
		listInbox(args)
	case "contact":
		sendContact(args)
	case "health":
		checkHealth()
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: autofolio <command>

Commands:
  auth       login|logout|who
  portfolio  list|save|delete|reorder
  public     view a portfolio without auth
  inbox      list contact messages
  contact    send a contact message
  health     check server health`)
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: autofolio auth <login|logout|who>")
		return
	}

	switch args[0] {
	case "login":
		loginDev(args[1:])
	case "logout":
		os.Remove(tokenFile())
		fmt.Println("✓ Logged out")
	case "who":
		token := loadToken()
		if token == "" {
			fmt.Println("Not logged in")
			return
		}
		fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

// loginDev mints a local dev token and registers it with the server. Only
// works against servers running with AUTH_PROVIDER=dev.
func loginDev(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	secret := fs.String("secret", "change-me-in-production", "dev token secret")

	fs.Parse(args)

	if *email == "" {
		fmt.Println("Error: email is required")
		fs.PrintDefaults()
		return
	}

	verifier := identity.NewDevVerifier(*secret)
	token, err := verifier.MintToken(*email, *email, *name, 24*time.Hour)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	payload, _ := json.Marshal(map[string]string{"token": token})
	resp, err := http.Post(getAPIURL()+"/auth/google", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		saveToken(token)
		fmt.Printf("✓ Logged in as: %s\n", *email)
		if user, ok := result["user"].(map[string]interface{}); ok {
			fmt.Printf("  subdomain: %v\n", user["subdomain"])
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result)
	}
}

func handlePortfolio(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: autofolio portfolio <list|save|delete|reorder>")
		return
	}

	switch args[0] {
	case "list":
		listItems(args[1:])
	case "save":
		saveItem(args[1:])
	case "delete":
		deleteItem(args[1:])
	case "reorder":
		reorderItems(args[1:])
	default:
		fmt.Printf("unknown portfolio command: %s\n", args[0])
	}
}

func listItems(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: autofolio portfolio list <skills|projects|internships|certifications|achievements>")
		return
	}

	req, _ := http.NewRequest("GET", getAPIURL()+"/admin/view/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var items []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&items)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tORDER\tVISIBLE")
	for _, it := range items {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", it["id"], it["title"], it["display_order"], it["is_visible"])
	}
	w.Flush()
}

func saveItem(args []string) {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	table := fs.String("table", "", "resource kind")
	id := fs.Int64("id", 0, "item id (0 to create)")
	fields := fs.String("fields", "{}", "item fields as JSON")

	fs.Parse(args)

	if *table == "" {
		fmt.Println("Error: table is required")
		fs.PrintDefaults()
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(*fields), &payload); err != nil {
		fmt.Printf("Error: invalid fields JSON: %v\n", err)
		return
	}
	payload["table"] = *table
	if *id != 0 {
		payload["id"] = *id
	}

	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/admin/save", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		fmt.Printf("✓ Saved: %v\n", result["item"])
	} else {
		fmt.Printf("✗ Save failed: %v\n", result)
	}
}

func deleteItem(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: autofolio portfolio delete <resource> <id>")
		return
	}

	req, _ := http.NewRequest("DELETE", getAPIURL()+"/admin/delete/"+args[0]+"/"+args[1], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		fmt.Printf("✓ Deleted %s/%s\n", args[0], args[1])
	} else {
		fmt.Printf("✗ Delete failed (status %d)\n", resp.StatusCode)
	}
}

func reorderItems(args []string) {
	fs := flag.NewFlagSet("reorder", flag.ExitOnError)
	table := fs.String("table", "", "resource kind")
	ids := fs.String("ids", "", "comma-separated ids in display order")

	fs.Parse(args)

	if *table == "" || *ids == "" {
		fmt.Println("Error: table and ids are required")
		fs.PrintDefaults()
		return
	}

	ordered := strings.Split(*ids, ",")
	data, _ := json.Marshal(map[string]interface{}{
		"table":      *table,
		"orderedIds": ordered,
	})
	req, _ := http.NewRequest("POST", getAPIURL()+"/admin/reorder", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		fmt.Println("✓ Reordered")
	} else {
		fmt.Printf("✗ Reorder failed (status %d)\n", resp.StatusCode)
	}
}

func handlePublic(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: autofolio public <username> <resource>")
		return
	}

	resp, err := http.Get(getAPIURL() + "/public/" + args[0] + "/" + args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var items []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&items)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tORDER")
	for _, it := range items {
		fmt.Fprintf(w, "%v\t%v\n", it["title"], it["display_order"])
	}
	w.Flush()
}

func listInbox(args []string) {
	_ = args
	req, _ := http.NewRequest("GET", getAPIURL()+"/admin/view/messages", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var messages []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&messages)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tSUBJECT\tRECEIVED")
	for _, m := range messages {
		fmt.Fprintf(w, "%v\t%v <%v>\t%v\t%v\n", m["id"], m["name"], m["email"], m["subject"], m["created_at"])
	}
	w.Flush()
}

func sendContact(args []string) {
	fs := flag.NewFlagSet("contact", flag.ExitOnError)
	target := fs.String("to", "", "target portfolio subdomain")
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "your email")
	subject := fs.String("subject", "", "subject line")
	message := fs.String("message", "", "message body")

	fs.Parse(args)

	if *name == "" || *email == "" || *message == "" {
		fmt.Println("Error: name, email, and message are required")
		fs.PrintDefaults()
		return
	}

	data, _ := json.Marshal(map[string]string{
		"target_user": *target,
		"name":        *name,
		"email":       *email,
		"subject":     *subject,
		"message":     *message,
	})
	resp, err := http.Post(getAPIURL()+"/contact", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		fmt.Println("✓ Message sent")
	} else {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Send failed: %v\n", result)
	}
}

func checkHealth() {
	base := strings.TrimSuffix(getAPIURL(), "/api")
	resp, err := http.Get(base + "/readyz")
	if err != nil {
		fmt.Printf("✗ Server unreachable: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		fmt.Printf("✓ Server ready: %v\n", result["checks"])
	} else {
		fmt.Printf("✗ Server not ready: %v\n", result["checks"])
	}
}

func getAPIURL() string {
	if url := os.Getenv("AUTOFOLIO_API"); url != "" {
		return strings.TrimSuffix(url, "/")
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".autofolio_token"
	}
	return filepath.Join(home, ".autofolio_token")
}

func saveToken(token string) {
	os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, err := os.ReadFile(tokenFile())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func addAuthHeader(req *http.Request) {
	if token := loadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
