package main

import (
	"net/http"
	"time"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/gin-gonic/gin"
)

// userCourse resolves a course only if it is owned by the user through its
// semester.
func userCourse(userID uint, courseID string) (*models.Course, bool) {
	var course models.Course
	err := db.Joins("JOIN semesters ON semesters.id = courses.semester_id").
		Where("courses.id = ? AND semesters.user_id = ?", courseID, userID).
		First(&course).Error
	if err != nil {
		return nil, false
	}
	return &course, true
}

// userAssessment resolves an assessment through course -> semester ownership.
func userAssessment(userID uint, assessmentID string) (*models.Assessment, bool) {
	var a models.Assessment
	err := db.Joins("JOIN courses ON courses.id = assessments.course_id").
		Joins("JOIN semesters ON semesters.id = courses.semester_id").
		Where("assessments.id = ? AND semesters.user_id = ?", assessmentID, userID).
		First(&a).Error
	if err != nil {
		return nil, false
	}
	return &a, true
}

// userNote resolves a note through course -> semester ownership.
func userNote(userID uint, noteID string) (*models.Note, bool) {
	var n models.Note
	err := db.Joins("JOIN courses ON courses.id = notes.course_id").
		Joins("JOIN semesters ON semesters.id = courses.semester_id").
		Where("notes.id = ? AND semesters.user_id = ?", noteID, userID).
		First(&n).Error
	if err != nil {
		return nil, false
	}
	return &n, true
}

// --- Semesters ---

func listSemestersHandler(c *gin.Context) {
	user := currentUser(c)
	var semesters []models.Semester
	if err := db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&semesters).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list semesters.")
		return
	}
	respondData(c, http.StatusOK, semesters)
}

func getSemesterHandler(c *gin.Context) {
	user := currentUser(c)
	var semester models.Semester
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&semester).Error; err != nil {
		respondError(c, http.StatusNotFound, "Semester not found.")
		return
	}
	respondData(c, http.StatusOK, semester)
}

type semesterRequest struct {
	Title     string     `json:"title" binding:"required,max=255"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Notes     string     `json:"notes"`
}

func createSemesterHandler(c *gin.Context) {
	user := currentUser(c)
	var req semesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	semester := models.Semester{
		UserID:    user.ID,
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	}
	if err := db.Create(&semester).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create semester.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Semester created successfully.", semester)
}

func updateSemesterHandler(c *gin.Context) {
	user := currentUser(c)
	var semester models.Semester
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&semester).Error; err != nil {
		respondError(c, http.StatusNotFound, "Semester not found.")
		return
	}
	var req semesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	semester.Title = req.Title
	semester.StartDate = req.StartDate
	semester.EndDate = req.EndDate
	semester.Notes = req.Notes
	if err := db.Save(&semester).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update semester.")
		return
	}
	respondMessageData(c, http.StatusOK, "Semester updated successfully.", semester)
}

func deleteSemesterHandler(c *gin.Context) {
	user := currentUser(c)
	var semester models.Semester
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&semester).Error; err != nil {
		respondError(c, http.StatusNotFound, "Semester not found.")
		return
	}
	if err := db.Delete(&semester).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete semester.")
		return
	}
	respondMessage(c, http.StatusOK, "Semester deleted successfully.")
}

// --- Courses ---

func listCoursesHandler(c *gin.Context) {
	user := currentUser(c)
	var semester models.Semester
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&semester).Error; err != nil {
		respondError(c, http.StatusNotFound, "Semester not found.")
		return
	}
	var courses []models.Course
	if err := db.Where("semester_id = ?", semester.ID).Order("created_at ASC").Find(&courses).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list courses.")
		return
	}
	respondData(c, http.StatusOK, courses)
}

type courseRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Code        string `json:"code" binding:"max=64"`
	Instructor  string `json:"instructor" binding:"max=255"`
	CreditHours *int   `json:"credit_hours"`
	Room        string `json:"room" binding:"max=255"`
	ColorTag    string `json:"color_tag" binding:"max=32"`
}

func createCourseHandler(c *gin.Context) {
	user := currentUser(c)
	var semester models.Semester
	if err := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).First(&semester).Error; err != nil {
		respondError(c, http.StatusNotFound, "Semester not found.")
		return
	}
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	course := models.Course{
		SemesterID:  semester.ID,
		Name:        req.Name,
		Code:        req.Code,
		Instructor:  req.Instructor,
		CreditHours: req.CreditHours,
		Room:        req.Room,
		ColorTag:    req.ColorTag,
	}
	if err := db.Create(&course).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create course.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Course created successfully.", course)
}

func updateCourseHandler(c *gin.Context) {
	user := currentUser(c)
	course, ok := userCourse(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Course not found.")
		return
	}
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	course.Name = req.Name
	course.Code = req.Code
	course.Instructor = req.Instructor
	course.CreditHours = req.CreditHours
	course.Room = req.Room
	course.ColorTag = req.ColorTag
	if err := db.Save(course).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update course.")
		return
	}
	respondMessageData(c, http.StatusOK, "Course updated successfully.", course)
}

func deleteCourseHandler(c *gin.Context) {
	user := currentUser(c)
	course, ok := userCourse(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Course not found.")
		return
	}
	if err := db.Delete(course).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete course.")
		return
	}
	respondMessage(c, http.StatusOK, "Course deleted successfully.")
}

// --- Assessments ---

func listAssessmentsHandler(c *gin.Context) {
	user := currentUser(c)
	course, ok := userCourse(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Course not found.")
		return
	}
	var assessments []models.Assessment
	if err := db.Where("course_id = ?", course.ID).Order("due_date ASC").Find(&assessments).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list assessments.")
		return
	}
	respondData(c, http.StatusOK, assessments)
}

type assessmentRequest struct {
	Title            string     `json:"title" binding:"required,max=255"`
	Type             string     `json:"type" binding:"required,oneof=quiz midterm final assignment project"`
	GradeReceived    *float64   `json:"grade_received"`
	GradeMax         *float64   `json:"grade_max"`
	DueDate          *time.Time `json:"due_date"`
	WeightPercentage *float64   `json:"weight_percentage"`
}

func createAssessmentHandler(c *gin.Context) {
	user := currentUser(c)
	course, ok := userCourse(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Course not found.")
		return
	}
	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	assessment := models.Assessment{
		CourseID:         course.ID,
		Title:            req.Title,
		Type:             req.Type,
		GradeReceived:    req.GradeReceived,
		GradeMax:         req.GradeMax,
		DueDate:          req.DueDate,
		WeightPercentage: req.WeightPercentage,
	}
	if err := db.Create(&assessment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create assessment.")
		return
	}
	respondMessageData(c, http.StatusCreated, "Assessment created successfully.", assessment)
}

func getAssessmentHandler(c *gin.Context) {
	user := currentUser(c)
	assessment, ok := userAssessment(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Assessment not found.")
		return
	}
	respondData(c, http.StatusOK, assessment)
}

func updateAssessmentHandler(c *gin.Context) {
	user := currentUser(c)
	assessment, ok := userAssessment(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Assessment not found.")
		return
	}
	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	assessment.Title = req.Title
	assessment.Type = req.Type
	assessment.GradeReceived = req.GradeReceived
	assessment.GradeMax = req.GradeMax
	assessment.DueDate = req.DueDate
	assessment.WeightPercentage = req.WeightPercentage
	if err := db.Save(assessment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update assessment.")
		return
	}
	respondMessageData(c, http.StatusOK, "Assessment updated successfully.", assessment)
}

func deleteAssessmentHandler(c *gin.Context) {
	user := currentUser(c)
	assessment, ok := userAssessment(user.ID, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Assessment not found.")
		return
	}
	if err := db.Delete(assessment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete assessment.")
		return
	}
	respondMessage(c, http.StatusOK, "Assessment deleted successfully.")
}
