package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer builds the MCP server exposing the booking tools over stdio.
func NewServer(toolset *Toolset, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"DentalBright Booking",
		version,
		server.WithToolCapabilities(false),
	)
	registerTools(s, toolset)
	return s
}

func registerTools(s *server.MCPServer, t *Toolset) {
	s.AddTool(mcp.NewTool("createAppointment",
		mcp.WithDescription("Book an appointment for a patient"),
		mcp.WithString("dentistName", mcp.Required(), mcp.Description("The name of the doctor")),
		mcp.WithString("patientName", mcp.Required(), mcp.Description("The name of the patient")),
		mcp.WithString("patientPhone", mcp.Required(), mcp.Description("The phone number of the patient")),
		mcp.WithString("date", mcp.Required(), mcp.Description("The date of the appointment in YYYY-MM-DD format")),
		mcp.WithString("time", mcp.Required(), mcp.Description("The time of the appointment in HH:MM format")),
		mcp.WithString("serviceType", mcp.Description("The type of service: checkup, cleaning, filling or root_canal. Defaults to checkup.")),
		mcp.WithString("notes", mcp.Description("Additional notes for the appointment")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, isErr := t.CreateAppointment(ctx,
			stringArg(req, "dentistName"),
			stringArg(req, "patientName"),
			stringArg(req, "patientPhone"),
			stringArg(req, "date"),
			stringArg(req, "time"),
			stringArg(req, "serviceType"),
			stringArg(req, "notes"),
		)
		return result(text, isErr), nil
	})

	s.AddTool(mcp.NewTool("rescheduleAppointment",
		mcp.WithDescription("Reschedule an existing appointment for a patient"),
		mcp.WithString("dentistName", mcp.Required(), mcp.Description("The name of the doctor")),
		mcp.WithString("patientName", mcp.Required(), mcp.Description("The name of the patient")),
		mcp.WithString("patientPhone", mcp.Required(), mcp.Description("The phone number of the patient")),
		mcp.WithString("oldDate", mcp.Required(), mcp.Description("The current date of the appointment in YYYY-MM-DD format")),
		mcp.WithString("oldTime", mcp.Required(), mcp.Description("The current time of the appointment in HH:MM format")),
		mcp.WithString("newDate", mcp.Required(), mcp.Description("The new date of the appointment in YYYY-MM-DD format")),
		mcp.WithString("newTime", mcp.Required(), mcp.Description("The new time of the appointment in HH:MM format")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, isErr := t.RescheduleAppointment(ctx,
			stringArg(req, "dentistName"),
			stringArg(req, "patientName"),
			stringArg(req, "patientPhone"),
			stringArg(req, "oldDate"),
			stringArg(req, "oldTime"),
			stringArg(req, "newDate"),
			stringArg(req, "newTime"),
		)
		return result(text, isErr), nil
	})

	s.AddTool(mcp.NewTool("cancelAppointment",
		mcp.WithDescription("Cancel an existing appointment for a patient"),
		mcp.WithString("dentistName", mcp.Required(), mcp.Description("The name of the doctor")),
		mcp.WithString("patientName", mcp.Required(), mcp.Description("The name of the patient")),
		mcp.WithString("patientPhone", mcp.Required(), mcp.Description("The phone number of the patient")),
		mcp.WithString("date", mcp.Required(), mcp.Description("The date of the appointment in YYYY-MM-DD format")),
		mcp.WithString("time", mcp.Required(), mcp.Description("The time of the appointment in HH:MM format")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, isErr := t.CancelAppointment(ctx,
			stringArg(req, "dentistName"),
			stringArg(req, "patientName"),
			stringArg(req, "patientPhone"),
			stringArg(req, "date"),
			stringArg(req, "time"),
		)
		return result(text, isErr), nil
	})

	s.AddTool(mcp.NewTool("getDentistList",
		mcp.WithDescription("Get the list of dentists with their specializations"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, isErr := t.GetDentistList(ctx)
		return result(text, isErr), nil
	})

	s.AddTool(mcp.NewTool("getDentistDetails",
		mcp.WithDescription("Get a dentist's profile including working hours"),
		mcp.WithString("dentistName", mcp.Required(), mcp.Description("The name of the doctor")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, isErr := t.GetDentistDetails(ctx, stringArg(req, "dentistName"))
		return result(text, isErr), nil
	})

	s.AddTool(mcp.NewTool("checkDentistAvailability",
		mcp.WithDescription("Check a dentist's free slots on a date"),
		mcp.WithString("dentistName", mcp.Required(), mcp.Description("The name of the doctor")),
		mcp.WithString("date", mcp.Required(), mcp.Description("The date to check in YYYY-MM-DD format")),
		mcp.WithString("serviceType", mcp.Description("The type of service: checkup, cleaning, filling or root_canal. Defaults to checkup.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, isErr := t.CheckDentistAvailability(ctx,
			stringArg(req, "dentistName"),
			stringArg(req, "date"),
			stringArg(req, "serviceType"),
		)
		return result(text, isErr), nil
	})

	s.AddTool(mcp.NewTool("getCurrentDate",
		mcp.WithDescription("Get the current date in YYYY-MM-DD format"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, isErr := t.GetCurrentDate()
		return result(text, isErr), nil
	})

	s.AddTool(mcp.NewTool("getCurrentTime",
		mcp.WithDescription("Get the current time in HH:MM:SS format"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, isErr := t.GetCurrentTime()
		return result(text, isErr), nil
	})
}

func stringArg(req mcp.CallToolRequest, name string) string {
	if v, ok := req.Params.Arguments[name].(string); ok {
		return v
	}
	return ""
}

// result wraps tool output. The pinned mcp-go release has no constructor
// for error-flagged results, so that variant is built by hand.
func result(text string, isErr bool) *mcp.CallToolResult {
	if isErr {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
			IsError: true,
		}
	}
	return mcp.NewToolResultText(text)
}
