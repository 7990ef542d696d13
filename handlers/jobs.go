package handlers

import (
	"net/http"

	"bitbucket.org/roadstar/haulage_backend/config"
	"bitbucket.org/roadstar/haulage_backend/engine"
	"bitbucket.org/roadstar/haulage_backend/middlewares"
	"bitbucket.org/roadstar/haulage_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewJob
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		job, err := models.CreateJob(c.Request.Context(), config.GetDB(), input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, job)
	}
}

func GetJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathId(c, "id")
		if !ok {
			return
		}
		job, err := middlewares.GetJob(c.Request.Context(), jobId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if job.JobNumber == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}

		jobType, err := middlewares.GetJobType(c.Request.Context(), job.JobTypeId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"job":      job,
			"job_type": jobType,
		})
	}
}

func ListJobsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.JobFilter{
			Status:    models.JobStatus(c.Query("status")),
			JobTypeId: queryInt(c.Query("job_type_id"), 0),
			Limit:     queryInt(c.Query("limit"), 0),
		}
		if after := c.Query("after"); after != "" {
			filter.After = &after
		}
		jobs, pageInfo, err := models.PaginateJobs(c.Request.Context(), config.GetDB(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"jobs":      jobs,
			"page_info": pageInfo,
		})
	}
}

// JobAmountHandler prices a single job on demand without touching any cache.
func JobAmountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathId(c, "id")
		if !ok {
			return
		}
		amount, err := newEngine().CalculateJobAmountById(c.Request.Context(), jobId)
		if err != nil {
			if engine.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"job_id": jobId,
			"amount": amount,
		})
	}
}

func CreateJobTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewJobType
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		jobType, err := models.CreateJobType(c.Request.Context(), config.GetDB(), input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, jobType)
	}
}

// JobTypeRateHandler resolves the dispatch type and rate a job type bills
// with. Unrecognized dispatch types report as Fixed, matching how pricing
// treats them.
func JobTypeRateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobTypeId, ok := pathId(c, "id")
		if !ok {
			return
		}
		dispatchType, rate, err := newEngine().ResolveRate(c.Request.Context(), jobTypeId)
		if err != nil {
			if engine.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "job type not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"job_type_id":   jobTypeId,
			"dispatch_type": dispatchType,
			"rate":          rate,
		})
	}
}

func CreateDispatcherHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewDispatcher
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dispatcher, err := models.CreateDispatcher(c.Request.Context(), config.GetDB(), input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, dispatcher)
	}
}
