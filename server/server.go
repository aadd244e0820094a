package server

import (
	"context"
	"log"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/nxthub/influencewise/config"
	"github.com/nxthub/influencewise/internal/advisory"
	"github.com/nxthub/influencewise/internal/auth"
	"github.com/nxthub/influencewise/internal/common"
	"github.com/nxthub/influencewise/internal/store"
	"github.com/nxthub/influencewise/misc"
)

type Server struct {
	Cfg *config.Config

	r  *gin.Engine
	db *bolt.DB

	auth  *auth.Auth
	store *store.Store

	// Live copies of the record collections, kept current by the engine's
	// store subscriptions. Read-shared by list and detail views; only the
	// subscription goroutines replace them.
	Campaigns   *common.Campaigns
	Influencers *common.Influencers

	// nil when no advisory API key is configured; every advisory check
	// then degrades to "no advisory found"
	advisory *advisory.Client

	drafts *draftSessions

	unsubs []func()
}

func New(cfg *config.Config, r *gin.Engine) (*Server, error) {
	db := misc.OpenDB(cfg.DBPath, cfg.DBName)

	st, err := store.New(db, cfg.Bucket.All)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		Cfg:         cfg,
		r:           r,
		db:          db,
		auth:        auth.New(db, cfg),
		store:       st,
		Campaigns:   common.NewCampaigns(),
		Influencers: common.NewInfluencers(),
		drafts:      newDraftSessions(),
	}

	if cfg.Advisory.APIKey != "" {
		srv.advisory, err = advisory.NewClient(context.Background(), cfg.Advisory.APIKey, cfg.Advisory.Model)
		if err != nil {
			return nil, err
		}
	} else {
		log.Println("no advisory API key configured, duplicate/price checks disabled")
	}

	srv.initializeRoutes(r)

	if err = srv.seedAdmin(); err != nil {
		return nil, err
	}

	if err = newEngine(srv); err != nil {
		return nil, err
	}

	return srv, nil
}

// seedAdmin creates the first admin account on a fresh database so the
// user-approval workflow has someone to act as the approver.
func (srv *Server) seedAdmin() error {
	if len(srv.Cfg.AdminEmails) == 0 || srv.Cfg.AdminPass == "" {
		return nil
	}
	return srv.db.Update(func(tx *bolt.Tx) error {
		email := srv.Cfg.AdminEmails[0]
		if srv.auth.GetLoginTx(tx, email) != nil {
			return nil
		}
		u := &auth.User{Name: "Admin", Email: email, Role: auth.AdminScope}
		if err := srv.auth.CreateUserTx(tx, u, srv.Cfg.AdminPass); err != nil {
			return err
		}
		return srv.auth.ApproveUserTx(tx, u.Id)
	})
}

func (srv *Server) Run() error {
	return srv.r.Run(srv.Cfg.Host + ":" + srv.Cfg.Port)
}

func (srv *Server) Close() error {
	for _, unsub := range srv.unsubs {
		unsub()
	}
	srv.drafts.closeAll()
	return srv.db.Close()
}

var (
	// every signed-in dashboard role can read
	readScopes = auth.ScopeMap{auth.AllScopes: {Get: true}}
	// managers log records, executives and admins review them
	writeScopes  = auth.ScopeMap{auth.AllScopes: {Get: true, Post: true, Put: true, Delete: true}}
	reviewScopes = auth.ScopeMap{auth.ExecutiveScope: {Get: true, Put: true}}
	adminScopes  = auth.ScopeMap{}
)

func (srv *Server) initializeRoutes(r *gin.Engine) {
	api := r.Group(srv.Cfg.APIPath)

	api.POST("/signIn", srv.auth.SignInHandler)
	api.POST("/signUp", srv.auth.SignupHandler)
	api.POST("/signOut", srv.auth.SignOutHandler)

	v := api.Group("", srv.auth.VerifyUser)

	v.GET("/me", getCurrentUser(srv))

	sh := srv.auth.CheckScopes

	// Influencers
	v.GET("/influencers", sh(readScopes), getAllInfluencers(srv))
	v.GET("/influencers/facets", sh(readScopes), getInfluencerFacets(srv))
	v.GET("/influencers/:id", sh(readScopes), getInfluencer(srv))
	v.POST("/influencers", sh(writeScopes), postInfluencer(srv))
	v.DELETE("/influencers/:id", sh(writeScopes), delInfluencer(srv))

	// Campaigns
	v.GET("/campaigns", sh(readScopes), getAllCampaigns(srv))
	v.GET("/campaigns/export", sh(readScopes), exportCampaigns(srv))
	v.GET("/campaigns/:id", sh(readScopes), getCampaign(srv))
	v.POST("/campaigns", sh(writeScopes), postCampaign(srv))
	v.PUT("/campaigns/:id/approve", sh(reviewScopes), approveCampaign(srv))
	v.PUT("/campaigns/:id/reject", sh(reviewScopes), rejectCampaign(srv))
	v.PUT("/campaigns/:id/complete", sh(writeScopes), completeCampaign(srv))

	// Draft dialogs (server-held form state with debounced advisories)
	v.POST("/drafts/influencer", sh(writeScopes), openInfluencerDraft(srv))
	v.PUT("/drafts/influencer/:id", sh(writeScopes), updateInfluencerDraft(srv))
	v.GET("/drafts/influencer/:id/advisory", sh(writeScopes), getInfluencerDraftAdvisory(srv))
	v.POST("/drafts/influencer/:id/submit", sh(writeScopes), submitInfluencerDraft(srv))
	v.DELETE("/drafts/influencer/:id", sh(writeScopes), closeInfluencerDraft(srv))

	v.POST("/drafts/campaign", sh(writeScopes), openCampaignDraft(srv))
	v.PUT("/drafts/campaign/:id", sh(writeScopes), updateCampaignDraft(srv))
	v.GET("/drafts/campaign/:id/advisory", sh(writeScopes), getCampaignDraftAdvisory(srv))
	v.POST("/drafts/campaign/:id/submit", sh(writeScopes), submitCampaignDraft(srv))
	v.DELETE("/drafts/campaign/:id", sh(writeScopes), closeCampaignDraft(srv))

	// One-shot advisory checks (no debounce; the draft endpoints debounce)
	v.POST("/advisory/duplicate", sh(writeScopes), checkDuplicate(srv))
	v.POST("/advisory/price", sh(writeScopes), checkPrice(srv))

	// User approval (admins only; CheckScopes always lets admins through)
	v.GET("/users", sh(adminScopes), getAllUsers(srv))
	v.GET("/users/pending", sh(adminScopes), getPendingUsers(srv))
	v.PUT("/users/pending/:id/approve", sh(adminScopes), approveUser(srv))
	v.PUT("/users/pending/:id/reject", sh(adminScopes), rejectUser(srv))
}
