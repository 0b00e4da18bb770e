package mcp

import "github.com/mark3labs/mcp-go/mcp"

var sessionParam = mcp.WithString("session_id",
	mcp.Required(),
	mcp.Description("Conversation id; reuse it to keep the context between calls"),
)

var sendMessageTool = mcp.NewTool("send_message",
	mcp.WithDescription("Send a message to Ane, the teaching assistant, and get her reply. Ane writes lesson plans and weekly schedules and answers pedagogical questions in Portuguese."),
	sessionParam,
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("What the teacher says, in Portuguese"),
	),
)

var getContextTool = mcp.NewTool("get_context",
	mcp.WithDescription("Get the current intent, collected data and history of a conversation."),
	sessionParam,
)

var clearContextTool = mcp.NewTool("clear_context",
	mcp.WithDescription("Forget a conversation entirely."),
	sessionParam,
)

var getLessonPlanTool = mcp.NewTool("get_lesson_plan",
	mcp.WithDescription("Get the markdown of the last lesson plan generated in a conversation."),
	sessionParam,
)
