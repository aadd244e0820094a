package server

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/nxthub/influencewise/internal/auth"
	"github.com/nxthub/influencewise/internal/common"
	"github.com/nxthub/influencewise/internal/filter"
	"github.com/nxthub/influencewise/internal/forms"
	"github.com/nxthub/influencewise/internal/store"
	"github.com/nxthub/influencewise/misc"
)

func getAllCampaigns(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		visible := filter.Campaigns(s.Campaigns.GetAll(), c.Query("q"))
		views := make([]*campaignView, 0, len(visible))
		for _, cmp := range visible {
			views = append(views, s.campaignView(cmp))
		}
		c.JSON(200, views)
	}
}

// exportCampaigns hands back the currently visible (filtered) records as a
// download.
func exportCampaigns(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		visible := filter.Campaigns(s.Campaigns.GetAll(), c.Query("q"))
		views := make([]*campaignView, 0, len(visible))
		for _, cmp := range visible {
			views = append(views, s.campaignView(cmp))
		}
		c.Header("Content-Disposition", `attachment; filename="campaigns.json"`)
		c.JSON(200, views)
	}
}

func getCampaign(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cmp common.Campaign
		if err := s.store.Get(s.Cfg.Bucket.Campaign, c.Params.ByName("id"), &cmp); err != nil {
			c.JSON(404, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, s.campaignView(&cmp))
	}
}

// postCampaign is the non-interactive log-campaign flow; campaigns always
// enter the system Pending.
func postCampaign(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cmp common.Campaign
		if err := misc.BindJSON(c, &cmp); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}
		if err := cmp.Check(true); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		if fe := forms.ValidateCampaign(&cmp); len(fe) > 0 {
			c.JSON(400, gin.H{"code": 400, "fields": fe})
			return
		}
		cmp.Status = common.StatusPending
		cmp.Completion = nil
		id, err := s.store.CreateAssign(s.Cfg.Bucket.Campaign, func(id string) interface{} {
			cmp.Id = id
			return &cmp
		})
		if err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(id))
	}
}

func (srv *Server) transitionCampaign(id string, to common.Status, details *common.CompletionDetails) error {
	return srv.store.Update(srv.Cfg.Bucket.Campaign, id, func(raw json.RawMessage) (interface{}, error) {
		var cmp common.Campaign
		if err := json.Unmarshal(raw, &cmp); err != nil {
			return nil, err
		}
		if err := cmp.Transition(to, details); err != nil {
			return nil, err
		}
		return &cmp, nil
	})
}

func transitionHandler(s *Server, to common.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Params.ByName("id")
		if err := s.transitionCampaign(id, to, nil); err != nil {
			code := 400
			if err == store.ErrNotFound {
				code = 404
			}
			c.JSON(code, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(id))
	}
}

// approveCampaign and rejectCampaign are the review transitions; the
// review scope gate in the route table is re-checked here against the
// authenticated user, never against anything client-supplied.
func approveCampaign(s *Server) gin.HandlerFunc {
	h := transitionHandler(s, common.StatusApproved)
	return func(c *gin.Context) {
		if u := auth.GetCtxUser(c); u == nil || !u.Role.CanReview() {
			misc.AbortWithErr(c, 401, auth.ErrUnauthorized)
			return
		}
		h(c)
	}
}

func rejectCampaign(s *Server) gin.HandlerFunc {
	h := transitionHandler(s, common.StatusRejected)
	return func(c *gin.Context) {
		if u := auth.GetCtxUser(c); u == nil || !u.Role.CanReview() {
			misc.AbortWithErr(c, 401, auth.ErrUnauthorized)
			return
		}
		h(c)
	}
}

// completeCampaign runs the complete-campaign dialog in one shot: the
// completion details must validate and attach atomically with the
// Approved -> Completed transition.
func completeCampaign(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cd common.CompletionDetails
		if err := misc.BindJSON(c, &cd); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}
		id := c.Params.ByName("id")
		d := forms.NewCompletionDialog(s.store, s.Cfg.Bucket.Campaign, id)
		d.SetDraft(cd)
		if err := d.Submit(); err != nil {
			code := 400
			if err == store.ErrNotFound {
				code = 404
			}
			c.JSON(code, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(id))
	}
}
