package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"chatbot-evaluation/backend/ai"
	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/prompts"
	"chatbot-evaluation/backend/internal/repository"
	"chatbot-evaluation/backend/internal/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *repository.GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "study.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return repository.NewGormStore(db)
}

// fixedDrawer returns the same draws every time
type fixedDrawer struct {
	condition models.Condition
	model     models.LanguageModel
	style     models.PromptStyle
	sequence  []models.UseCase
}

func (d fixedDrawer) DrawCondition() models.Condition         { return d.condition }
func (d fixedDrawer) DrawLanguageModel() models.LanguageModel { return d.model }
func (d fixedDrawer) DrawPromptStyle() models.PromptStyle     { return d.style }
func (d fixedDrawer) DrawSequence([]models.UseCase) []models.UseCase {
	return append([]models.UseCase(nil), d.sequence...)
}

func defaultDrawer() fixedDrawer {
	return fixedDrawer{
		condition: models.Condition{
			LanguageModel: models.ModelLlama,
			UseCase:       models.UseCaseEducation,
			PromptStyle:   models.PromptStandard,
		},
		model: models.ModelDeepSeek,
		style: models.PromptProactive,
		sequence: []models.UseCase{
			models.UseCaseDebate,
			models.UseCaseHealthCare,
			models.UseCaseEducation,
			models.UseCaseActivitySupport,
			models.UseCaseAmbientIntelligence,
		},
	}
}

type gatewayCall struct {
	scope   ai.ScopeConfig
	history []ai.Turn
	message string
}

// fakeGateway records calls and answers with the configured result
type fakeGateway struct {
	mu     sync.Mutex
	calls  []gatewayCall
	result ai.Result
}

func (g *fakeGateway) SendTurn(_ context.Context, scope ai.ScopeConfig, history []ai.Turn, userMessage string) ai.Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{scope: scope, history: history, message: userMessage})
	return g.result
}

func succeeding(content string, reasoning *string) *fakeGateway {
	return &fakeGateway{result: ai.Result{Success: true, Content: content, Reasoning: reasoning, Timestamp: time.Now()}}
}

type fixture struct {
	store       *repository.GormStore
	evaluations *EvaluationService
	chat        *ChatService
	surveys     *SurveyService
	results     *ResultsService
	gateway     *fakeGateway
}

func newFixture(t *testing.T, opts EvaluationOptions) *fixture {
	t.Helper()
	store := newTestStore(t)
	gateway := succeeding("Happy to help.", nil)
	return &fixture{
		store:       store,
		evaluations: NewEvaluationService(store, defaultDrawer(), prompts.Default(), opts),
		chat:        NewChatService(store, gateway),
		surveys:     NewSurveyService(store),
		results:     NewResultsService(store),
		gateway:     gateway,
	}
}

func (f *fixture) startEvaluation(t *testing.T) *models.Evaluation {
	t.Helper()
	ctx := context.Background()
	user, err := f.evaluations.CreateSession(ctx)
	require.NoError(t, err)
	evaluation, err := f.evaluations.StartEvaluation(ctx, user.SessionID)
	require.NoError(t, err)
	return evaluation
}

func floatPtr(v float64) *float64 { return &v }

func (f *fixture) seedQuestions(t *testing.T) []models.Question {
	t.Helper()
	questions := []models.Question{
		{Text: "How comfortable are you with chatbots?", Type: models.QuestionLikert, Required: true, Order: 1, SurveyType: models.PhasePre, Active: true},
		{Text: "Anything else?", Type: models.QuestionText, Order: 2, SurveyType: models.PhasePre, Active: true},
		{Text: "How clear were the answers?", Type: models.QuestionLikert, Required: true, Order: 1, SurveyType: models.PhasePost, Active: true},
		{Text: "Hours spent with chatbots per week", Type: models.QuestionNumeric, Order: 2, SurveyType: models.PhasePost, Active: true,
			MinValue: floatPtr(0), MaxValue: floatPtr(40), Step: floatPtr(0.5)},
		{Text: "Would you use it again?", Type: models.QuestionChoice, Required: true, Order: 3, SurveyType: models.PhasePost, Active: true,
			Options: []string{"yes", "no", "maybe"}},
	}
	require.NoError(t, f.surveys.SeedQuestions(context.Background(), questions))

	pre, err := f.surveys.ListQuestions(context.Background(), models.PhasePre)
	require.NoError(t, err)
	post, err := f.surveys.ListQuestions(context.Background(), models.PhasePost)
	require.NoError(t, err)
	return append(pre, post...)
}

func TestStartEvaluationAssignsConditionAndPlan(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	evaluation := f.startEvaluation(t)

	assert.Equal(t, defaultDrawer().condition, evaluation.Condition())
	assert.Equal(t, defaultDrawer().sequence, []models.UseCase(evaluation.TopicPlan))
	assert.False(t, evaluation.StartTime.IsZero())
	assert.Nil(t, evaluation.EndTime)

	_, err := f.evaluations.StartEvaluation(context.Background(), "unknown-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNextTopicFollowsPlan(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)

	topic, err := f.evaluations.NextTopic(ctx, evaluation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UseCaseDebate, topic.UseCase)
	assert.NotEmpty(t, topic.GoalText)
	assert.False(t, topic.Done)

	start, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID})
	require.NoError(t, err)
	assert.Equal(t, models.UseCaseDebate, start.Session.UseCase)
	_, err = f.surveys.Submit(ctx, Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID, ChatSessionID: &start.Session.ID})
	require.NoError(t, err)

	topic, err = f.evaluations.NextTopic(ctx, evaluation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UseCaseHealthCare, topic.UseCase)

	_, err = f.evaluations.NextTopic(ctx, 999)
	assert.ErrorIs(t, err, ErrEvaluationNotFound)
}

func TestNextTopicReportsDoneWhenPlanIsExhausted(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)

	for range models.UseCases() {
		start, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID})
		require.NoError(t, err)
		_, err = f.surveys.Submit(ctx, Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID, ChatSessionID: &start.Session.ID})
		require.NoError(t, err)
	}

	topic, err := f.evaluations.NextTopic(ctx, evaluation.ID)
	require.NoError(t, err)
	assert.True(t, topic.Done)

	_, err = f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID})
	assert.ErrorIs(t, err, ErrTopicsExhausted)
}

func TestStartChatSessionResumesAndRejectsCompletedTopics(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)
	education := models.UseCaseEducation

	first, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID, UseCase: &education})
	require.NoError(t, err)
	assert.False(t, first.Resumed)
	assert.Equal(t, models.PromptProactive, first.Session.PromptStyle)
	assert.Nil(t, first.Session.LanguageModel)

	again, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID, UseCase: &education})
	require.NoError(t, err)
	assert.True(t, again.Resumed)
	assert.Equal(t, first.Session.ID, again.Session.ID)

	_, err = f.surveys.Submit(ctx, Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID, ChatSessionID: &first.Session.ID})
	require.NoError(t, err)

	_, err = f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID, UseCase: &education})
	assert.ErrorIs(t, err, ErrTopicCompleted)
}

func TestStartChatSessionModelOverride(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, EvaluationOptions{RandomizeModelPerTopic: true})
	evaluation := f.startEvaluation(t)
	start, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID})
	require.NoError(t, err)
	require.NotNil(t, start.Session.LanguageModel)
	assert.Equal(t, models.ModelDeepSeek, *start.Session.LanguageModel)

	f = newFixture(t, EvaluationOptions{})
	evaluation = f.startEvaluation(t)
	explicit := models.ModelDeepSeek
	start, err = f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID, LanguageModel: &explicit})
	require.NoError(t, err)
	require.NotNil(t, start.Session.LanguageModel)
	assert.Equal(t, models.ModelDeepSeek, start.Session.Condition(evaluation).LanguageModel)
}

func TestSendEvaluationMessagePersistsBothTurns(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)

	reasoning := "the user wants a study plan"
	f.gateway.result = ai.Result{Success: true, Content: "Start with ten minutes a day.", Reasoning: &reasoning, Timestamp: time.Now()}

	exchange, err := f.chat.SendEvaluationMessage(ctx, evaluation.ID, "  How should I study?  ")
	require.NoError(t, err)
	assert.Equal(t, "How should I study?", exchange.UserMessage.Content)
	assert.Equal(t, "Start with ten minutes a day.", exchange.BotMessage.Content)
	require.NotNil(t, exchange.BotMessage.Reasoning)
	assert.Equal(t, reasoning, *exchange.BotMessage.Reasoning)

	_, err = f.chat.SendEvaluationMessage(ctx, evaluation.ID, "And after a week?")
	require.NoError(t, err)

	require.Len(t, f.gateway.calls, 2)
	call := f.gateway.calls[1]
	assert.Equal(t, ai.ScopeFromCondition(evaluation.Condition()), call.scope)
	assert.Equal(t, []ai.Turn{
		{Role: ai.RoleUser, Content: "How should I study?"},
		{Role: ai.RoleAssistant, Content: "Start with ten minutes a day."},
	}, call.history)
	assert.Equal(t, "And after a week?", call.message)

	msgs, err := f.store.ListMessages(ctx, models.EvaluationScope(evaluation.ID))
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestSendMessageRejectsEmptyTextBeforeAnyCall(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)

	_, err := f.chat.SendEvaluationMessage(ctx, evaluation.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = f.chat.SendChatMessage(ctx, 1, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	assert.Empty(t, f.gateway.calls)
	msgs, err := f.store.ListMessages(ctx, models.EvaluationScope(evaluation.ID))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSendMessageGatewayFailureKeepsParticipantMessage(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)
	f.gateway.result = ai.Result{Success: false, Error: "Request timed out", Timestamp: time.Now()}

	_, err := f.chat.SendEvaluationMessage(ctx, evaluation.ID, "hello")
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "Request timed out", gwErr.Result.Error)
	assert.NotZero(t, gwErr.UserMessageID)

	msgs, err := f.store.ListMessages(ctx, models.EvaluationScope(evaluation.ID))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.SenderUser, msgs[0].Sender)
}

func TestSendChatMessageUsesSessionCondition(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)

	override := models.ModelDeepSeek
	start, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID, LanguageModel: &override})
	require.NoError(t, err)

	_, err = f.chat.SendChatMessage(ctx, start.Session.ID, "Is homework useful?")
	require.NoError(t, err)
	require.Len(t, f.gateway.calls, 1)
	assert.Equal(t, ai.ScopeConfig{
		Model:       models.ModelDeepSeek,
		UseCase:     models.UseCaseDebate,
		PromptStyle: models.PromptProactive,
	}, f.gateway.calls[0].scope)

	msgs, err := f.chat.ListSessionMessages(ctx, start.Session.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	// session messages stay out of the evaluation transcript
	evalMsgs, err := f.store.ListMessages(ctx, models.EvaluationScope(evaluation.ID))
	require.NoError(t, err)
	assert.Empty(t, evalMsgs)

	_, err = f.surveys.Submit(ctx, Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID, ChatSessionID: &start.Session.ID})
	require.NoError(t, err)
	_, err = f.chat.SendChatMessage(ctx, start.Session.ID, "one more")
	assert.ErrorIs(t, err, ErrChatSessionCompleted)

	_, err = f.chat.SendChatMessage(ctx, 999, "hi")
	assert.ErrorIs(t, err, ErrChatSessionNotFound)
	_, err = f.chat.ListSessionMessages(ctx, 999)
	assert.ErrorIs(t, err, ErrChatSessionNotFound)
}

func TestSendChatMessageRejectsEndedEvaluation(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)

	start, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID})
	require.NoError(t, err)

	// closing the evaluation leaves the open session untouched
	_, err = f.surveys.Submit(ctx, Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID})
	require.NoError(t, err)

	_, err = f.chat.SendChatMessage(ctx, start.Session.ID, "still there?")
	assert.ErrorIs(t, err, ErrEvaluationEnded)
	assert.Empty(t, f.gateway.calls)

	msgs, err := f.chat.ListSessionMessages(ctx, start.Session.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSubmitSurveyValidation(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)
	questions := f.seedQuestions(t)
	preLikert, postLikert, postNumeric, postChoice := questions[0], questions[2], questions[3], questions[4]

	tests := []struct {
		name    string
		sub     Submission
		wantErr func(t *testing.T, err error)
	}{
		{
			name: "unknown evaluation",
			sub:  Submission{Phase: models.PhasePre, EvaluationID: 999},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEvaluationNotFound)
			},
		},
		{
			name: "question of the other phase",
			sub: Submission{Phase: models.PhasePre, EvaluationID: evaluation.ID, Answers: []Answer{
				{QuestionID: preLikert.ID, Answer: "3"},
				{QuestionID: postLikert.ID, Answer: "3"},
			}},
			wantErr: func(t *testing.T, err error) {
				var unknown *UnknownQuestionError
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, []uint{postLikert.ID}, unknown.IDs)
			},
		},
		{
			name: "missing required",
			sub: Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID, Answers: []Answer{
				{QuestionID: postNumeric.ID, Answer: 2.5},
			}},
			wantErr: func(t *testing.T, err error) {
				var validation *survey.ValidationError
				require.True(t, errors.As(err, &validation))
				assert.Equal(t, []uint{postLikert.ID, postChoice.ID}, validation.Missing)
			},
		},
		{
			name: "blank required answer counts as missing",
			sub: Submission{Phase: models.PhasePre, EvaluationID: evaluation.ID, Answers: []Answer{
				{QuestionID: preLikert.ID, Answer: "  "},
			}},
			wantErr: func(t *testing.T, err error) {
				var validation *survey.ValidationError
				require.True(t, errors.As(err, &validation))
				assert.Equal(t, []uint{preLikert.ID}, validation.Missing)
			},
		},
		{
			name: "numeric off the step grid",
			sub: Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID, Answers: []Answer{
				{QuestionID: postLikert.ID, Answer: 4.0},
				{QuestionID: postNumeric.ID, Answer: 2.3},
				{QuestionID: postChoice.ID, Answer: "yes"},
			}},
			wantErr: func(t *testing.T, err error) {
				var answerErr *survey.AnswerError
				require.True(t, errors.As(err, &answerErr))
				assert.Equal(t, postNumeric.ID, answerErr.QuestionID)
			},
		},
		{
			name: "duplicate answers",
			sub: Submission{Phase: models.PhasePre, EvaluationID: evaluation.ID, Answers: []Answer{
				{QuestionID: preLikert.ID, Answer: "3"},
				{QuestionID: preLikert.ID, Answer: "4"},
			}},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrDuplicateAnswer)
			},
		},
		{
			name: "unsupported answer type",
			sub: Submission{Phase: models.PhasePre, EvaluationID: evaluation.ID, Answers: []Answer{
				{QuestionID: preLikert.ID, Answer: []any{1, 2}},
			}},
			wantErr: func(t *testing.T, err error) {
				var answerErr *survey.AnswerError
				assert.True(t, errors.As(err, &answerErr))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.surveys.Submit(ctx, tt.sub)
			require.Error(t, err)
			tt.wantErr(t, err)
		})
	}

	// nothing was persisted and the evaluation is still open
	responses, err := f.store.ListResponses(ctx, models.EvaluationScope(evaluation.ID))
	require.NoError(t, err)
	assert.Empty(t, responses)
	got, err := f.evaluations.GetEvaluation(ctx, evaluation.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.PreSurveyAt)
}

func TestSubmitPostSurveyEndsEvaluationOnce(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)
	questions := f.seedQuestions(t)
	postLikert, postChoice := questions[2], questions[4]

	sub := Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID, Answers: []Answer{
		{QuestionID: postLikert.ID, Answer: 5.0},
		{QuestionID: postChoice.ID, Answer: "maybe"},
	}}
	saved, err := f.surveys.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	got, err := f.evaluations.GetEvaluation(ctx, evaluation.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.EndTime)

	_, err = f.surveys.Submit(ctx, sub)
	assert.ErrorIs(t, err, ErrSurveyAlreadySubmitted)

	_, err = f.chat.SendEvaluationMessage(ctx, evaluation.ID, "still there?")
	assert.ErrorIs(t, err, ErrEvaluationEnded)
}

func TestSubmitSurveyRejectsForeignChatSession(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	first := f.startEvaluation(t)
	second := f.startEvaluation(t)

	start, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: first.ID})
	require.NoError(t, err)

	_, err = f.surveys.Submit(ctx, Submission{Phase: models.PhasePre, EvaluationID: second.ID, ChatSessionID: &start.Session.ID})
	assert.ErrorIs(t, err, ErrScopeMismatch)

	missing := uint(999)
	_, err = f.surveys.Submit(ctx, Submission{Phase: models.PhasePre, EvaluationID: first.ID, ChatSessionID: &missing})
	assert.ErrorIs(t, err, ErrChatSessionNotFound)
}

func TestSeedQuestionsRejectsInvalidEntries(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	err := f.surveys.SeedQuestions(context.Background(), []models.Question{
		{Text: "Pick one", Type: models.QuestionChoice, SurveyType: models.PhasePre, Active: true, Options: []string{"only"}},
	})
	assert.Error(t, err)
}

func TestResultsProjection(t *testing.T) {
	f := newFixture(t, EvaluationOptions{})
	ctx := context.Background()
	evaluation := f.startEvaluation(t)
	questions := f.seedQuestions(t)
	preLikert, preText, postLikert, postNumeric, postChoice := questions[0], questions[1], questions[2], questions[3], questions[4]

	_, err := f.surveys.Submit(ctx, Submission{Phase: models.PhasePre, EvaluationID: evaluation.ID, Answers: []Answer{
		{QuestionID: preLikert.ID, Answer: "2"},
		{QuestionID: preText.ID, Answer: ""},
	}})
	require.NoError(t, err)

	_, err = f.chat.SendEvaluationMessage(ctx, evaluation.ID, "hello")
	require.NoError(t, err)

	start, err := f.evaluations.StartChatSession(ctx, StartChatSessionRequest{EvaluationID: evaluation.ID})
	require.NoError(t, err)
	_, err = f.chat.SendChatMessage(ctx, start.Session.ID, "debate me")
	require.NoError(t, err)
	_, err = f.surveys.Submit(ctx, Submission{Phase: models.PhasePost, EvaluationID: evaluation.ID, ChatSessionID: &start.Session.ID, Answers: []Answer{
		{QuestionID: postLikert.ID, Answer: "4"},
		{QuestionID: postNumeric.ID, Answer: 1.5},
		{QuestionID: postChoice.ID, Answer: "yes"},
	}})
	require.NoError(t, err)

	results, err := f.results.Get(ctx, evaluation.ID)
	require.NoError(t, err)

	assert.Equal(t, evaluation.Condition(), results.Condition)
	assert.Nil(t, results.EndTime)
	assert.NotNil(t, results.PreSurveyAt)
	require.Len(t, results.Surveys.Pre, 1)
	assert.Equal(t, 2, results.Surveys.Pre[0].Value)
	assert.Empty(t, results.Surveys.Post)
	assert.Len(t, results.Messages, 2)

	require.Len(t, results.ChatSessions, 1)
	session := results.ChatSessions[0]
	assert.True(t, session.Completed)
	assert.Len(t, session.Messages, 2)
	require.Len(t, session.Surveys.Post, 3)
	assert.Equal(t, 4, session.Surveys.Post[0].Value)
	assert.Equal(t, 1.5, session.Surveys.Post[1].Value)
	assert.Equal(t, "yes", session.Surveys.Post[2].Value)

	_, err = f.results.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrEvaluationNotFound)
}
