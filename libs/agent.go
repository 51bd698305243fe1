package libs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mrjawadhere/Hackthon-Smit/model"
)

const (
	agentModel    = "gemini-2.5-flash"
	agentTimeout  = 40 * time.Second
	maxToolRounds = 4

	agentInstructions = `You are an AI assistant that helps manage student records. You can perform the following actions:
- Add a new student record.
- Read existing student records.
- Update student records.
- Delete student records.
When responding to user queries, use the tools provided to interact with the student database as needed. Always ensure that you confirm actions with the user before making changes to the database.
If the user asks for information about students, use the read_students or read_student_by_id tool.
If the user wants to add, update, or delete a student, use the respective tool and confirm the action with the user.
For general campus-related questions, use the campus_search tool to provide accurate information.`
)

type agentStudentStore interface {
	List(ctx context.Context) ([]model.Student, error)
	FindByID(ctx context.Context, id int) (*model.Student, error)
	Insert(ctx context.Context, student *model.Student) error
	UpdateField(ctx context.Context, id int, field string, value any) (*model.Student, error)
	Delete(ctx context.Context, id int) error
}

type searcher interface {
	Search(query string) string
}

// Agent wraps the Gemini tool-calling model. It is probed once at startup;
// a missing flag, missing key, or failed client construction leaves the
// orchestrator with a nil agent and the deterministic fallback.
type Agent struct {
	client   *genai.Client
	students agentStudentStore
	mailer   welcomeSender
	searcher searcher
}

// NewAgent builds the Gemini client. Callers treat any error as
// "agent absent", never as fatal.
func NewAgent(apiKey string, students agentStudentStore, mailer welcomeSender, search searcher) (*Agent, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("agent: GEMINI_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: init client: %w", err)
	}

	return &Agent{client: client, students: students, mailer: mailer, searcher: search}, nil
}

// Invoke runs one agent turn: history (oldest first) plus the new input,
// with up to four rounds of tool calls before the model must answer.
func (a *Agent) Invoke(ctx context.Context, history []model.ChatMessage, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, agentTimeout)
	defer cancel()

	contents := historyToContents(history)
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: input}},
	})

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: agentInstructions}},
		},
		Tools: []*genai.Tool{{FunctionDeclarations: toolDeclarations()}},
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.client.Models.GenerateContent(ctx, agentModel, contents, config)
		if err != nil {
			return "", fmt.Errorf("agent: generate: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("agent: empty response")
		}

		candidate := resp.Candidates[0].Content

		var calls []*genai.FunctionCall
		text := ""
		for _, p := range candidate.Parts {
			if p.FunctionCall != nil {
				calls = append(calls, p.FunctionCall)
			}
			text += p.Text
		}

		if len(calls) == 0 {
			text = strings.TrimSpace(text)
			if text == "" {
				return "", fmt.Errorf("agent: response had no text")
			}
			return text, nil
		}

		contents = append(contents, candidate)
		responseParts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			result := a.callTool(ctx, call.Name, call.Args)
			responseParts = append(responseParts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     call.Name,
					Response: result,
				},
			})
		}
		contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: responseParts})
	}

	return "", fmt.Errorf("agent: tool loop exceeded %d rounds", maxToolRounds)
}

// historyToContents maps the chat log onto Gemini contents, skipping empty
// messages.
func historyToContents(history []model.ChatMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		role := genai.RoleUser
		if msg.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents
}

func toolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        "read_students",
			Description: "Fetch all students from the database.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		{
			Name:        "read_student_by_id",
			Description: "Fetch a student by numeric id (not the Mongo _id).",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {Type: genai.TypeInteger, Description: "Numeric student id"},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "add_student",
			Description: "Add a new student. Sends a welcome email to the student after a successful insert.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":         {Type: genai.TypeInteger, Description: "Numeric student id, unique"},
					"name":       {Type: genai.TypeString},
					"email":      {Type: genai.TypeString},
					"age":        {Type: genai.TypeInteger},
					"department": {Type: genai.TypeString},
				},
				Required: []string{"id", "name", "email"},
			},
		},
		{
			Name:        "update_student",
			Description: "Update a single field for a student. Allowed fields: name, age, department, email.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":        {Type: genai.TypeInteger},
					"field":     {Type: genai.TypeString},
					"new_value": {Type: genai.TypeString},
				},
				Required: []string{"id", "field", "new_value"},
			},
		},
		{
			Name:        "delete_student",
			Description: "Delete a student by numeric id.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {Type: genai.TypeInteger},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "campus_search",
			Description: "Search the web for general campus-related information.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString},
				},
				Required: []string{"query"},
			},
		},
	}
}

// callTool dispatches one function call. Every result follows the same
// {Data, Error, Message} shape so the model can report outcomes uniformly.
func (a *Agent) callTool(ctx context.Context, name string, args map[string]any) map[string]any {
	zap.S().Infow("agent tool call", "tool", name)

	switch name {
	case "read_students":
		students, err := a.students.List(ctx)
		if err != nil {
			return toolError(err.Error())
		}
		return toolOK(students, "All students data fetched successfully")

	case "read_student_by_id":
		id, ok := argInt(args, "id")
		if !ok {
			return toolError("missing or invalid 'id'")
		}
		student, err := a.students.FindByID(ctx, id)
		if err == ErrNotFound {
			return toolError("Student not found")
		}
		if err != nil {
			return toolError(err.Error())
		}
		return toolOK(student, "Student data fetched successfully")

	case "add_student":
		return a.addStudentTool(ctx, args)

	case "update_student":
		id, ok := argInt(args, "id")
		if !ok {
			return toolError("missing or invalid 'id'")
		}
		field, _ := args["field"].(string)
		student, err := a.students.UpdateField(ctx, id, field, args["new_value"])
		if err == ErrNotFound {
			return toolError(fmt.Sprintf("Student with id=%d not found", id))
		}
		if err != nil {
			return toolError(err.Error())
		}
		return toolOK(student, "Student updated successfully")

	case "delete_student":
		id, ok := argInt(args, "id")
		if !ok {
			return toolError("missing or invalid 'id'")
		}
		err := a.students.Delete(ctx, id)
		if err == ErrNotFound {
			return toolError("Student not found")
		}
		if err != nil {
			return toolError(err.Error())
		}
		return toolOK(map[string]any{"id": id}, "Student deleted successfully")

	case "campus_search":
		query, _ := args["query"].(string)
		if a.searcher == nil || strings.TrimSpace(query) == "" {
			return toolError("search unavailable")
		}
		result := a.searcher.Search(query)
		if result == "" {
			return toolError("no results found")
		}
		return toolOK(result, "Search results fetched")

	default:
		return toolError(fmt.Sprintf("unknown tool %q", name))
	}
}

func (a *Agent) addStudentTool(ctx context.Context, args map[string]any) map[string]any {
	id, ok := argInt(args, "id")
	if !ok {
		return toolError("missing or invalid 'id'")
	}
	name, _ := args["name"].(string)
	email, _ := args["email"].(string)
	department, _ := args["department"].(string)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return toolError("'name' and 'email' are required")
	}

	student := &model.Student{
		ID:         id,
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
		Department: strings.TrimSpace(department),
	}
	if age, ok := argInt(args, "age"); ok {
		student.Age = &age
	}

	if err := a.students.Insert(ctx, student); err != nil {
		if err == ErrDuplicateID {
			return toolError(fmt.Sprintf("Student with id=%d already exists", id))
		}
		return toolError(err.Error())
	}

	emailStatus := map[string]any{"sent": false, "to": student.Email}
	if a.mailer != nil && a.mailer.Configured() {
		if err := a.mailer.SendWelcome(student.Email, student.Name, student.Department); err != nil {
			emailStatus["error"] = err.Error()
		} else {
			emailStatus["sent"] = true
		}
	} else {
		emailStatus["error"] = "mail relay not configured"
	}

	return toolOK(map[string]any{"student": student, "email_status": emailStatus}, "Student added successfully")
}

func argInt(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func toolOK(data any, message string) map[string]any {
	return map[string]any{"Data": data, "Error": false, "Message": message}
}

func toolError(message string) map[string]any {
	return map[string]any{"Data": nil, "Error": true, "Message": message}
}
