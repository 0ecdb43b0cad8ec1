package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	orgDTO "certivo_backend/internals/features/organizations/organization/dto"
	orgModel "certivo_backend/internals/features/organizations/organization/model"
	helper "certivo_backend/internals/helpers"
)

var validate = validator.New()

type OrganizationController struct {
	DB *gorm.DB
}

func NewOrganizationController(db *gorm.DB) *OrganizationController {
	return &OrganizationController{DB: db}
}

// POST /api/a/organizations
func (ctrl *OrganizationController) Create(c *fiber.Ctx) error {
	var req orgDTO.CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// name+type must be unique at creation
	var count int64
	if err := ctrl.DB.Model(&orgModel.OrganizationModel{}).
		Where("lower(organization_name) = lower(?) AND organization_type = ?", req.Name, req.Type).
		Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check organization")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "An organization with this name and type already exists")
	}

	org := req.ToModel()
	if err := ctrl.DB.Create(org).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "An organization with this name and type already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create organization")
	}

	return helper.JsonCreated(c, "Organization created", orgDTO.NewOrganizationResponse(org))
}

// GET /api/a/organizations?search=&type=&page=&per_page=
func (ctrl *OrganizationController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&orgModel.OrganizationModel{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("organization_name ILIKE ?", "%"+search+"%")
	}
	if orgType := strings.TrimSpace(c.Query("type")); orgType != "" {
		q = q.Where("organization_type = ?", orgType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count organizations")
	}

	var orgs []orgModel.OrganizationModel
	if err := q.Order("organization_name ASC").Offset(paging.Offset).Limit(paging.Limit).Find(&orgs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load organizations")
	}

	items := make([]orgDTO.OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		items = append(items, orgDTO.NewOrganizationResponse(&orgs[i]))
	}

	return helper.JsonList(c, "Organizations loaded", items, helper.BuildPagination(total, paging, len(items)))
}

// GET /api/a/organizations/:id
func (ctrl *OrganizationController) GetByID(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid organization ID")
	}

	var org orgModel.OrganizationModel
	if err := ctrl.DB.First(&org, "organization_id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Organization not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load organization")
	}

	return helper.JsonOK(c, "Organization loaded", orgDTO.NewOrganizationResponse(&org))
}

// PUT /api/a/organizations/:id
func (ctrl *OrganizationController) Update(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid organization ID")
	}

	var org orgModel.OrganizationModel
	if err := ctrl.DB.First(&org, "organization_id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Organization not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load organization")
	}

	var req orgDTO.UpdateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	req.ApplyToModel(&org)
	if err := ctrl.DB.Save(&org).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "An organization with this name and type already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update organization")
	}

	return helper.JsonOK(c, "Organization updated", orgDTO.NewOrganizationResponse(&org))
}
