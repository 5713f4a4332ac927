package giftaid

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const noCompanyFilterMessage = "Loading transactions without company filter"

// Config holds the tunables of the review service
type Config struct {
	PageSize         int
	DefaultStatus    GiftAidStatus
	ExportFilePrefix string
	SessionTTL       time.Duration
	Clock            func() time.Time
}

// FilterOptions are the values offered by the filter pickers
type FilterOptions struct {
	Products  []Option `json:"products"`
	Statuses  []Option `json:"statuses"`
	Companies []Option `json:"companies"`
}

// Service drives review sessions against the backing store
type Service struct {
	options    OptionsRepository
	scopes     ScopeResolver
	query      *QueryCoordinator
	submission *SubmissionCoordinator
	sessions   *SessionStore
	cfg        Config
	logger     *zap.Logger
}

// NewService creates a review service. A nil scope resolver resolves every user to no company.
func NewService(transactions TransactionRepository, options OptionsRepository, scopes ScopeResolver, cfg Config, logger *zap.Logger) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.DefaultStatus == "" {
		cfg.DefaultStatus = StatusNonSubmitted
	}
	if cfg.ExportFilePrefix == "" {
		cfg.ExportFilePrefix = DefaultExportFilePrefix
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if scopes == nil {
		scopes = NoScopeResolver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	query := NewQueryCoordinator(transactions, logger)
	return &Service{
		options:    options,
		scopes:     scopes,
		query:      query,
		submission: NewSubmissionCoordinator(transactions, query, cfg.DefaultStatus, logger),
		sessions:   NewSessionStore(cfg.SessionTTL, cfg.Clock),
		cfg:        cfg,
		logger:     logger,
	}
}

// OpenSession creates a session for userID and runs the default load.
// A failed initial load keeps the session open and is reported as an error notice.
func (s *Service) OpenSession(ctx context.Context, userID string) (*Session, []Notice) {
	sess := s.sessions.Create(userID, s.cfg.PageSize)
	s.logger.Info("Review session opened",
		zap.String("sessionId", sess.ID),
		zap.String("userId", userID),
	)

	notices, err := s.LoadDefault(ctx, sess)
	if err != nil {
		notices = append(notices, Notice{Level: NoticeError, Message: "Failed to load transactions"})
	}
	return sess, notices
}

// Session returns an open session
func (s *Service) Session(id string) (*Session, error) {
	return s.sessions.Get(id)
}

// CloseSession discards a session
func (s *Service) CloseSession(id string) {
	s.sessions.Delete(id)
	s.logger.Info("Review session closed", zap.String("sessionId", id))
}

// LoadDefault runs the default query: configured status, restricted to the
// user's company when one can be resolved.
func (s *Service) LoadDefault(ctx context.Context, sess *Session) ([]Notice, error) {
	notices := s.resolveScope(ctx, sess)
	return notices, s.query.Run(ctx, sess, sess.defaultCriteria(s.cfg.DefaultStatus))
}

func (s *Service) resolveScope(ctx context.Context, sess *Session) []Notice {
	if _, resolved := sess.DefaultScope(); resolved {
		return nil
	}

	scope, err := s.scopes.ResolveCurrentUserScope(ctx, sess.UserID)
	if err != nil {
		s.logger.Warn("Failed to resolve user company, loading without company filter",
			zap.String("sessionId", sess.ID),
			zap.String("userId", sess.UserID),
			zap.Error(err),
		)
		sess.setDefaultScope(nil)
		return []Notice{{Level: NoticeInfo, Message: noCompanyFilterMessage}}
	}
	if scope == nil || scope.ScopeID == "" {
		s.logger.Info("User has no company, loading without company filter",
			zap.String("sessionId", sess.ID),
			zap.String("userId", sess.UserID),
		)
		sess.setDefaultScope(nil)
		return []Notice{{Level: NoticeInfo, Message: noCompanyFilterMessage}}
	}

	sess.setDefaultScope(scope)
	return nil
}

// ApplyFilter validates criteria and reloads the session with them.
// Invalid criteria are rejected before any query is issued.
func (s *Service) ApplyFilter(ctx context.Context, sess *Session, criteria FilterCriteria) error {
	if err := criteria.Validate(); err != nil {
		return err
	}
	return s.query.Run(ctx, sess, criteria)
}

// ResetFilters clears the selection, then runs the unconstrained query. The
// applied criteria are cleared only once that query succeeds.
func (s *Service) ResetFilters(ctx context.Context, sess *Session) error {
	sess.clearSelection()
	return s.query.Run(ctx, sess, FilterCriteria{})
}

// Submit sends the session's selection to the backing store
func (s *Service) Submit(ctx context.Context, sess *Session) (*SubmitResult, error) {
	return s.submission.Submit(ctx, sess)
}

// SubmitAndClose submits, then resets the filters and closes the session
func (s *Service) SubmitAndClose(ctx context.Context, sess *Session) (*SubmitResult, error) {
	result, err := s.submission.Submit(ctx, sess)
	if err != nil {
		return nil, err
	}
	sess.closeOut()
	s.CloseSession(sess.ID)
	return result, nil
}

// Export renders the session's entire result set as CSV
func (s *Service) Export(sess *Session) (*ExportFile, error) {
	file, err := BuildExport(sess.Records(), s.cfg.ExportFilePrefix, s.cfg.Clock())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Transactions exported",
		zap.String("sessionId", sess.ID),
		zap.String("fileName", file.FileName),
		zap.Int("count", file.RecordCount),
	)
	return file, nil
}

// FilterOptions loads the picker values. A picker that fails to load is
// returned empty together with an error notice.
func (s *Service) FilterOptions(ctx context.Context) (*FilterOptions, []Notice) {
	var notices []Notice
	opts := &FilterOptions{
		Products:  []Option{},
		Statuses:  []Option{NoneOption},
		Companies: []Option{NoneOption},
	}

	products, err := s.options.ProductOptions(ctx)
	if err != nil {
		s.logger.Error("Failed to load product options", zap.Error(err))
		notices = append(notices, Notice{Level: NoticeError, Message: "Failed to load product options"})
	} else {
		opts.Products = append(opts.Products, products...)
	}

	statuses, err := s.options.StatusOptions(ctx)
	if err != nil {
		s.logger.Error("Failed to load status options", zap.Error(err))
		notices = append(notices, Notice{Level: NoticeError, Message: "Failed to load status options"})
	} else {
		opts.Statuses = append(opts.Statuses, statuses...)
	}

	companies, err := s.options.CompanyOptions(ctx)
	if err != nil {
		s.logger.Error("Failed to load company options", zap.Error(err))
		notices = append(notices, Notice{Level: NoticeError, Message: "Failed to load company options"})
	} else {
		opts.Companies = append(opts.Companies, companies...)
	}

	return opts, notices
}
