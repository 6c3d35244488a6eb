package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studypal/internal/gpa"
)

// GPAHandler serves the GPA calculator endpoint.
type GPAHandler struct{}

func (h *GPAHandler) Register(g *echo.Group) {
	g.POST("/calculate", h.calculate)
}

func (h *GPAHandler) calculate(c echo.Context) error {
	var req GPARequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	courses := make([]gpa.Course, 0, len(req.Courses))
	for _, course := range req.Courses {
		courses = append(courses, gpa.Course{Name: course.Name, Credits: course.Credits, Grade: course.Grade})
	}

	result, err := gpa.Calculate(courses)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, GPAResponse{
		GPA:          result.GPA,
		TotalCredits: result.TotalCredits,
		TotalPoints:  result.TotalPoints,
	})
}
