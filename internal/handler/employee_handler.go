package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/company_registry/internal/domain"
	"github.com/locvowork/company_registry/internal/logger"
	"github.com/locvowork/company_registry/internal/persistence"
	"github.com/locvowork/company_registry/internal/service"
	"github.com/locvowork/company_registry/internal/service/serviceutils"
)

type EmployeeHandler struct {
	company     *service.Company
	snapshotter domain.Snapshotter
}

func NewEmployeeHandler(company *service.Company, snapshotter domain.Snapshotter) *EmployeeHandler {
	return &EmployeeHandler{company: company, snapshotter: snapshotter}
}

// statusFor maps registry errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req domain.Descriptor
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	emp, err := domain.FromDescriptor(req)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Invalid employee record", err)
	}

	if err := h.company.AddEmployee(c.Request().Context(), emp); err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to add employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Employee created successfully", toDTO(emp))
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	emp := h.company.GetEmployee(id)
	if emp == nil {
		return serviceutils.ResponseError(c, http.StatusNotFound, "Employee not found", &domain.NotFoundError{ID: id})
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee retrieved successfully", toDTO(emp))
}

func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	emp, err := h.company.RemoveEmployee(c.Request().Context(), id)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to remove employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee removed successfully", toDTO(emp))
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees listed successfully", toDTOs(h.company.Employees()))
}

func (h *EmployeeHandler) DepartmentsHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Departments listed successfully", h.company.GetDepartments())
}

func (h *EmployeeHandler) BudgetHandler(c echo.Context) error {
	department := c.Param("name")
	budget := BudgetDTO{
		Department: department,
		Budget:     h.company.GetDepartmentBudget(department),
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Department budget computed successfully", budget)
}

func (h *EmployeeHandler) TopManagersHandler(c echo.Context) error {
	managers := h.company.GetManagersWithMostFactor()
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Top managers retrieved successfully", toDTOs(managers))
}

func (h *EmployeeHandler) SaveHandler(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := h.company.Save(ctx, h.snapshotter)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to save snapshot", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Snapshot saved successfully", SnapshotDTO{Records: n})
}

// RestoreHandler replaces the company with the snapshot contents. A failed
// restore keeps the current records.
func (h *EmployeeHandler) RestoreHandler(c echo.Context) error {
	ctx := c.Request().Context()

	n, err := h.company.RestoreReplacing(ctx, h.snapshotter)
	if err != nil {
		var restoreErr *service.RestoreError
		if errors.As(err, &restoreErr) {
			logger.WarnLog(ctx, "restore rejected at record %d (id %d), company unchanged", restoreErr.Index, restoreErr.ID)
		}
		return serviceutils.ResponseError(c, statusFor(err), "Failed to restore snapshot", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Snapshot restored successfully", SnapshotDTO{Records: n})
}

func (h *EmployeeHandler) ExportXLSXHandler(c echo.Context) error {
	f, err := persistence.BuildWorkbook(h.company.Snapshot())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate Excel file", err)
	}
	defer f.Close()

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="employees.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)

	_, err = f.WriteTo(c.Response().Writer)
	return err
}
