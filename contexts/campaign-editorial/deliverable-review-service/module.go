package deliverablereview

import (
	"log/slog"
	"time"

	httpadapter "deliverables/contexts/campaign-editorial/deliverable-review-service/adapters/http"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/adapters/memory"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/application/commands"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/application/queries"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/application/workers"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

type Module struct {
	Handler      httpadapter.Handler
	Orchestrator commands.StageOrchestrator
	Store        *memory.Store
}

type Dependencies struct {
	Repository      ports.Repository
	Campaigns       ports.CampaignDirectory
	Locker          ports.Locker
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	PostingDueIn    time.Duration
	FinalDraftDueIn time.Duration
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	orchestrator := commands.StageOrchestrator{
		Repository:      deps.Repository,
		Locker:          deps.Locker,
		Clock:           deps.Clock,
		IDGen:           deps.IDGen,
		PostingDueIn:    deps.PostingDueIn,
		FinalDraftDueIn: deps.FinalDraftDueIn,
		Logger:          deps.Logger,
	}
	createSubmission := commands.CreateSubmissionUseCase{
		Repository: deps.Repository,
		Campaigns:  deps.Campaigns,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	uploadMedia := commands.UploadMediaUseCase{
		Repository: deps.Repository,
		Campaigns:  deps.Campaigns,
		Locker:     deps.Locker,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	submit := commands.SubmitUseCase{
		Repository: deps.Repository,
		Campaigns:  deps.Campaigns,
		Locker:     deps.Locker,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	review := commands.ReviewUseCase{
		Repository:   deps.Repository,
		Campaigns:    deps.Campaigns,
		Locker:       deps.Locker,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Orchestrator: orchestrator,
		Logger:       deps.Logger,
	}
	forward := commands.ForwardFeedbackUseCase{
		Repository:   deps.Repository,
		Campaigns:    deps.Campaigns,
		Locker:       deps.Locker,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Orchestrator: orchestrator,
		Logger:       deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Campaigns:  deps.Campaigns,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateSubmission: createSubmission,
			UploadMedia:      uploadMedia,
			Submit:           submit,
			Review:           review,
			ForwardFeedback:  forward,
			Orchestrator:     orchestrator,
			Queries:          queryUseCase,
			Logger:           deps.Logger,
		},
		Orchestrator: orchestrator,
	}
}

func NewInMemoryModule(campaigns []entities.Campaign, seed []entities.Submission, logger *slog.Logger) Module {
	store := memory.NewStore(campaigns, seed)
	module := NewModule(Dependencies{
		Repository: store,
		Campaigns:  store,
		Locker:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}

// NewOutboxRelay builds the relay worker over any outbox-capable store.
func NewOutboxRelay(
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	clock ports.Clock,
	batchSize int,
	logger *slog.Logger,
) workers.OutboxRelay {
	return workers.OutboxRelay{
		Outbox:    outbox,
		Publisher: publisher,
		Clock:     clock,
		BatchSize: batchSize,
		Logger:    logger,
	}
}

// NewUploadProgressConsumer registers finished uploads through the module's upload use case.
func NewUploadProgressConsumer(
	module Module,
	subscriber ports.EventSubscriber,
	progress ports.UploadProgressStore,
	consumerGroup string,
	logger *slog.Logger,
) workers.UploadProgressConsumer {
	return workers.UploadProgressConsumer{
		Subscriber:    subscriber,
		Progress:      progress,
		Uploads:       module.Handler.UploadMedia,
		Clock:         module.Handler.UploadMedia.Clock,
		ConsumerGroup: consumerGroup,
		Logger:        logger,
	}
}
