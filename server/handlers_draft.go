package server

import (
	"github.com/gin-gonic/gin"

	"github.com/nxthub/influencewise/internal/common"
	"github.com/nxthub/influencewise/internal/forms"
	"github.com/nxthub/influencewise/misc"
)

// The draft endpoints are the interactive form path: the dashboard opens a
// draft, PUTs field changes as the user types (each change re-arms the
// debounced advisory), polls the advisory, and finally submits or closes.

func openInfluencerDraft(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := forms.NewInfluencerDialog(s.store, s.Cfg.Bucket.Influencer, s.advisory,
			s.knownProfiles, s.Cfg.Advisory.Window, s.Cfg.Advisory.Timeout)
		c.JSON(200, misc.StatusOK(s.drafts.addInfluencer(d)))
	}
}

func updateInfluencerDraft(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := s.drafts.getInfluencer(c.Params.ByName("id"))
		if d == nil {
			c.JSON(404, misc.StatusErr("unknown draft"))
			return
		}
		var inf common.Influencer
		if err := misc.BindJSON(c, &inf); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}
		d.SetDraft(inf)
		c.JSON(200, misc.StatusOK(""))
	}
}

func getInfluencerDraftAdvisory(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := s.drafts.getInfluencer(c.Params.ByName("id"))
		if d == nil {
			c.JSON(404, misc.StatusErr("unknown draft"))
			return
		}
		c.JSON(200, gin.H{"advisory": d.Advisory()})
	}
}

func submitInfluencerDraft(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		draftId := c.Params.ByName("id")
		d := s.drafts.getInfluencer(draftId)
		if d == nil {
			c.JSON(404, misc.StatusErr("unknown draft"))
			return
		}
		id, err := d.Submit()
		if err != nil {
			// draft stays open and intact for correction
			if fe, ok := err.(forms.FieldErrors); ok {
				c.JSON(400, gin.H{"code": 400, "fields": fe})
			} else {
				c.JSON(400, misc.StatusErr(err.Error()))
			}
			return
		}
		s.drafts.removeInfluencer(draftId)
		c.JSON(200, misc.StatusOK(id))
	}
}

func closeInfluencerDraft(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d := s.drafts.removeInfluencer(c.Params.ByName("id")); d != nil {
			d.Close()
		}
		// closing an already-closed draft is fine
		c.JSON(200, misc.StatusOK(""))
	}
}

func openCampaignDraft(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := forms.NewCampaignDialog(s.store, s.Cfg.Bucket.Campaign, s.advisory,
			s.priceBenchmarks, s.Cfg.Advisory.Window, s.Cfg.Advisory.Timeout)
		c.JSON(200, misc.StatusOK(s.drafts.addCampaign(d)))
	}
}

func updateCampaignDraft(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := s.drafts.getCampaign(c.Params.ByName("id"))
		if d == nil {
			c.JSON(404, misc.StatusErr("unknown draft"))
			return
		}
		var cmp common.Campaign
		if err := misc.BindJSON(c, &cmp); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}
		d.SetDraft(cmp)
		c.JSON(200, misc.StatusOK(""))
	}
}

func getCampaignDraftAdvisory(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := s.drafts.getCampaign(c.Params.ByName("id"))
		if d == nil {
			c.JSON(404, misc.StatusErr("unknown draft"))
			return
		}
		c.JSON(200, gin.H{"advisory": d.Advisory()})
	}
}

func submitCampaignDraft(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		draftId := c.Params.ByName("id")
		d := s.drafts.getCampaign(draftId)
		if d == nil {
			c.JSON(404, misc.StatusErr("unknown draft"))
			return
		}
		id, err := d.Submit()
		if err != nil {
			if fe, ok := err.(forms.FieldErrors); ok {
				c.JSON(400, gin.H{"code": 400, "fields": fe})
			} else {
				c.JSON(400, misc.StatusErr(err.Error()))
			}
			return
		}
		s.drafts.removeCampaign(draftId)
		c.JSON(200, misc.StatusOK(id))
	}
}

func closeCampaignDraft(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d := s.drafts.removeCampaign(c.Params.ByName("id")); d != nil {
			d.Close()
		}
		c.JSON(200, misc.StatusOK(""))
	}
}
