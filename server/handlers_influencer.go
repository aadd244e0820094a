package server

import (
	"github.com/gin-gonic/gin"

	"github.com/nxthub/influencewise/internal/common"
	"github.com/nxthub/influencewise/internal/filter"
	"github.com/nxthub/influencewise/internal/forms"
	"github.com/nxthub/influencewise/internal/store"
	"github.com/nxthub/influencewise/misc"
)

// getAllInfluencers serves the list view: free text search on ?q plus
// comma separated ?category and ?language facet selections.
func getAllInfluencers(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		all := s.Influencers.GetAll()
		visible := filter.Influencers(all, c.Query("q"), filter.Facets{
			Category: filter.ParseFacet(c.Query("category")),
			Language: filter.ParseFacet(c.Query("language")),
		})
		c.JSON(200, visible)
	}
}

// getInfluencerFacets returns the distinct facet values over the FULL
// snapshot; the client never derives them from a filtered list.
func getInfluencerFacets(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, filter.ExtractFacets(s.Influencers.GetAll()))
	}
}

func getInfluencer(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inf common.Influencer
		if err := s.store.Get(s.Cfg.Bucket.Influencer, c.Params.ByName("id"), &inf); err != nil {
			c.JSON(404, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, &inf)
	}
}

// postInfluencer is the non-interactive add flow: validate and create in
// one shot. The interactive path with the debounced duplicate advisory
// lives on the /drafts/influencer endpoints.
func postInfluencer(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inf common.Influencer
		if err := misc.BindJSON(c, &inf); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}
		if err := inf.Check(true); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		if fe := forms.ValidateInfluencer(&inf); len(fe) > 0 {
			c.JSON(400, gin.H{"code": 400, "fields": fe})
			return
		}
		id, err := s.store.CreateAssign(s.Cfg.Bucket.Influencer, func(id string) interface{} {
			inf.Id = id
			return &inf
		})
		if err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(id))
	}
}

// delInfluencer removes the record. Campaigns referencing it are left
// alone; their views degrade to an N/A influencer.
func delInfluencer(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Params.ByName("id")
		if err := s.store.Delete(s.Cfg.Bucket.Influencer, id); err != nil {
			if err == store.ErrNotFound {
				c.JSON(404, misc.StatusErr(err.Error()))
			} else {
				c.JSON(500, misc.StatusErr(err.Error()))
			}
			return
		}
		c.JSON(200, misc.StatusOK(id))
	}
}
