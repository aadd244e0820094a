package misc

import "github.com/gin-gonic/gin"

type Status struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Id   string `json:"id,omitempty"`
}

func StatusOK(id string) *Status {
	return &Status{Code: 200, Msg: "success", Id: id}
}

func StatusErr(msg string) *Status {
	return &Status{Code: 400, Msg: msg}
}

func AbortWithErr(c *gin.Context, code int, err error) {
	s := &Status{Code: code, Msg: err.Error()}
	c.JSON(code, s)
	c.Abort()
}
