package v1_test

import (
	"context"
	"os"
	"testing"

	"github.com/knova-ai/knova/app/core"
	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/pkg/ai"
	"github.com/knova-ai/knova/pkg/security"
	"github.com/knova-ai/knova/pkg/testutils"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

// NewCore builds a core against the database named by the environment.
// Tests calling it are integration tests and skip without a DSN.
func NewCore(t *testing.T) *core.Core {
	t.Helper()
	testutils.LoadEnv()
	if os.Getenv("KNOVA_API_POSTGRESQL_DSN") == "" {
		t.Skip("KNOVA_API_POSTGRESQL_DSN not set")
	}
	if err := utils.SetupIDWorker(1); err != nil {
		t.Fatal(err)
	}
	return core.MustSetupCore(core.LoadBaseConfigFromENV())
}

func ctxWithClaims(claims security.TokenClaims) context.Context {
	return context.WithValue(context.Background(), v1.TOKEN_CONTEXT_KEY, claims)
}

func memberClaims(userID, department string) security.TokenClaims {
	return security.TokenClaims{
		User:       userID,
		UserName:   "test member",
		Role:       types.USER_ROLE_MEMBER,
		Department: department,
	}
}

func Test_SessionContinuity(t *testing.T) {
	app := NewCore(t)
	userID := "test-user-" + utils.RandomStr(8)
	logic := v1.NewChatSessionLogic(ctxWithClaims(memberClaims(userID, "")), app)

	session, created, err := logic.ResolveOrCreate("", "what is the travel policy for contractors?")
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected a new session")
	}
	if want := "what is the travel p"; session.Title != want {
		t.Fatalf("title = %q, want %q", session.Title, want)
	}

	again, created, err := logic.ResolveOrCreate(session.ID, "follow up question")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("second turn must reuse the session")
	}
	if again.ID != session.ID {
		t.Fatalf("session id changed: %s != %s", again.ID, session.ID)
	}

	if err = logic.DeleteChatSession(session.ID); err != nil {
		t.Fatal(err)
	}
}

func Test_ForeignSessionSilentlyCreatesNew(t *testing.T) {
	app := NewCore(t)
	owner := "test-owner-" + utils.RandomStr(8)
	intruder := "test-intruder-" + utils.RandomStr(8)

	ownerLogic := v1.NewChatSessionLogic(ctxWithClaims(memberClaims(owner, "")), app)
	session, _, err := ownerLogic.ResolveOrCreate("", "owner question")
	if err != nil {
		t.Fatal(err)
	}
	defer ownerLogic.DeleteChatSession(session.ID)

	intruderLogic := v1.NewChatSessionLogic(ctxWithClaims(memberClaims(intruder, "")), app)
	hijacked, created, err := intruderLogic.ResolveOrCreate(session.ID, "intruder question")
	if err != nil {
		t.Fatal(err)
	}
	if !created || hijacked.ID == session.ID {
		t.Fatal("foreign session id must silently produce a fresh session")
	}
	defer intruderLogic.DeleteChatSession(hijacked.ID)

	if _, err = intruderLogic.GetSessionHistory(session.ID); err == nil {
		t.Fatal("reading a foreign session history must fail")
	}
}

// scriptedConverser feeds a fixed source list and answer fragments, so the
// turn pipeline can be exercised without a model endpoint.
type scriptedConverser struct {
	sources   []types.SourceDisplay
	persisted types.MessageSources
	fragments []string
}

func (s *scriptedConverser) Converse(ctx context.Context, scope types.AccessScope, question string, history []types.HistoryEntry) (*v1.GenerationResult, error) {
	stream := make(chan ai.ResponseChoice, len(s.fragments)+1)
	for _, fragment := range s.fragments {
		stream <- ai.ResponseChoice{Message: fragment}
	}
	close(stream)
	return &v1.GenerationResult{
		DisplaySources: s.sources,
		Sources:        s.persisted,
		Stream:         stream,
	}, nil
}

func Test_StreamTurn_FrameOrder(t *testing.T) {
	app := NewCore(t)
	userID := "test-user-" + utils.RandomStr(8)
	ctx := ctxWithClaims(memberClaims(userID, "hr"))

	conv := &scriptedConverser{
		sources:   []types.SourceDisplay{{FileName: "policy.pdf", DepartmentID: "hr"}},
		persisted: types.MessageSources{{FileName: "policy.pdf", DepartmentID: "hr", Score: 0.42, PageLabel: "3"}},
		fragments: []string{"The travel policy ", "allows contractors."},
	}
	logic := v1.NewChatLogicWithConverser(ctx, app, conv)

	var frames []types.StreamFrame
	err := logic.StreamTurn(v1.TurnRequest{Question: "what is the travel policy?"}, func(frame types.StreamFrame) error {
		frames = append(frames, frame)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(frames) < 3 {
		t.Fatalf("expected session_id, sources and content frames, got %d", len(frames))
	}
	if frames[0].Type != types.FRAME_SESSION_ID {
		t.Fatalf("first frame = %s, want session_id", frames[0].Type)
	}
	if frames[1].Type != types.FRAME_SOURCES {
		t.Fatalf("second frame = %s, want sources", frames[1].Type)
	}
	for _, frame := range frames[2:] {
		if frame.Type != types.FRAME_CONTENT {
			t.Fatalf("trailing frame = %s, want content", frame.Type)
		}
	}

	sessionID := frames[0].Data.(string)
	sessionLogic := v1.NewChatSessionLogic(ctx, app)
	defer sessionLogic.DeleteChatSession(sessionID)

	messages, err := sessionLogic.GetSessionHistory(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected persisted question and answer, got %d messages", len(messages))
	}
	if messages[1].Content != "The travel policy allows contractors." {
		t.Fatalf("assistant content = %q", messages[1].Content)
	}
	if len(messages[1].Sources) != 1 || messages[1].Sources[0].PageLabel != "3" {
		t.Fatalf("assistant sources not persisted: %+v", messages[1].Sources)
	}
}

func adminClaims(userID string) security.TokenClaims {
	return security.TokenClaims{
		User:     userID,
		UserName: "test admin",
		Role:     types.USER_ROLE_ADMIN,
	}
}

func Test_SessionHistoryDedupsSources(t *testing.T) {
	app := NewCore(t)
	userID := "test-user-" + utils.RandomStr(8)
	ctx := ctxWithClaims(memberClaims(userID, "hr"))

	// Three cited pages, two distinct (department, file) pairs.
	conv := &scriptedConverser{
		sources: []types.SourceDisplay{{FileName: "policy.pdf", DepartmentID: "hr"}},
		persisted: types.MessageSources{
			{FileName: "policy.pdf", DepartmentID: "hr", Score: 0.42, PageLabel: "1"},
			{FileName: "policy.pdf", DepartmentID: "hr", Score: 0.40, PageLabel: "3"},
			{FileName: "policy.pdf", DepartmentID: "global", Score: 0.38, PageLabel: "1"},
		},
		fragments: []string{"Twenty days."},
	}
	logic := v1.NewChatLogicWithConverser(ctx, app, conv)

	res, err := logic.Turn(v1.TurnRequest{Question: "how many vacation days?"})
	if err != nil {
		t.Fatal(err)
	}
	sessionLogic := v1.NewChatSessionLogic(ctx, app)
	defer sessionLogic.DeleteChatSession(res.SessionID)

	messages, err := sessionLogic.GetSessionHistory(res.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected question and answer, got %d messages", len(messages))
	}
	answer := messages[1]
	if len(answer.Sources) != 2 {
		t.Fatalf("history view must show each file once per department, got %+v", answer.Sources)
	}
	if answer.Sources[0].DepartmentID != "hr" || answer.Sources[0].PageLabel != "1" {
		t.Fatalf("first occurrence must win: %+v", answer.Sources[0])
	}
	if answer.Sources[1].DepartmentID != "global" {
		t.Fatalf("distinct departments must both survive: %+v", answer.Sources[1])
	}
}

func Test_DashboardAdminSeesAllSessions(t *testing.T) {
	app := NewCore(t)

	member := "test-member-" + utils.RandomStr(8)
	memberLogic := v1.NewChatSessionLogic(ctxWithClaims(memberClaims(member, "hr")), app)
	session, _, err := memberLogic.ResolveOrCreate("", "member question")
	if err != nil {
		t.Fatal(err)
	}
	defer memberLogic.DeleteChatSession(session.ID)

	admin := "test-admin-" + utils.RandomStr(8)
	adminStats, err := v1.NewDashboardLogic(ctxWithClaims(adminClaims(admin)), app).Stats()
	if err != nil {
		t.Fatal(err)
	}
	if adminStats.Sessions < 1 {
		t.Fatalf("admin session count must span all users, got %d", adminStats.Sessions)
	}
	found := false
	for _, s := range adminStats.RecentSessions {
		if s.ID == session.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("admin recent sessions must include other users' sessions")
	}

	// A fresh member with no sessions sees only their own numbers.
	bystander := "test-bystander-" + utils.RandomStr(8)
	memberStats, err := v1.NewDashboardLogic(ctxWithClaims(memberClaims(bystander, "")), app).Stats()
	if err != nil {
		t.Fatal(err)
	}
	if memberStats.Sessions != 0 || len(memberStats.RecentSessions) != 0 {
		t.Fatalf("member stats leaked other users' sessions: %+v", memberStats)
	}
	if memberStats.Users != 0 {
		t.Fatal("user count is an admin-only figure")
	}
}
