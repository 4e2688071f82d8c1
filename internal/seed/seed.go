package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/stationconfig"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/utils"
)

type Store interface {
	CreateStation(ctx context.Context, st *domain.Station) error
	CreateCustomerType(ctx context.Context, name string) (string, error)
	CreateDogCategory(ctx context.Context, name string) (string, error)
	CreateCustomer(ctx context.Context, c *repository.Customer) error
	CreateDog(ctx context.Context, d *repository.Dog) error
	CreatePersonalAppointment(ctx context.Context, appt *domain.Appointment) error
	CreateCustomerAppointment(ctx context.Context, appt *domain.Appointment, dogID *string) error
	CreateWaitlistEntry(ctx context.Context, e *domain.WaitlistEntry) error
	SaveStationDailyConfigs(ctx context.Context, configs []domain.StationDailyConfig) error
}

type Seeder struct {
	store Store
	loc   *time.Location

	stations      map[string]string
	customerTypes map[string]string
	categories    map[string]string
	customers     map[string]string
	dogs          map[string]string // 客户名/狗狗名 -> ID
}

func NewSeeder(store Store, loc *time.Location) *Seeder {
	return &Seeder{
		store:         store,
		loc:           loc,
		stations:      make(map[string]string),
		customerTypes: make(map[string]string),
		categories:    make(map[string]string),
		customers:     make(map[string]string),
		dogs:          make(map[string]string),
	}
}

// Run 按依赖顺序导入数据，预约和候补的日期相对于 today
func (s *Seeder) Run(ctx context.Context, f *Fixture, today time.Time) error {
	steps := []struct {
		name string
		fn   func(context.Context, *Fixture, time.Time) error
	}{
		{"工位", s.seedStations},
		{"客户类型和狗狗分类", s.seedLookups},
		{"客户", s.seedCustomers},
		{"预约", s.seedAppointments},
		{"候补", s.seedWaitlist},
		{"工位配置", s.seedStationConfigs},
	}

	for _, step := range steps {
		if err := step.fn(ctx, f, today); err != nil {
			return fmt.Errorf("导入%s失败：%w", step.name, err)
		}
		slog.Info("导入完成", "step", step.name)
	}
	return nil
}

func (s *Seeder) seedStations(ctx context.Context, f *Fixture, _ time.Time) error {
	for _, sf := range f.Stations {
		st := &domain.Station{
			Name:         sf.Name,
			IsActive:     true,
			ServiceType:  domain.ServiceType(sf.ServiceType),
			DisplayOrder: sf.DisplayOrder,
		}
		if err := s.store.CreateStation(ctx, st); err != nil {
			return err
		}
		s.stations[sf.Name] = st.ID
	}
	return nil
}

func (s *Seeder) seedLookups(ctx context.Context, f *Fixture, _ time.Time) error {
	for _, name := range f.CustomerTypes {
		id, err := s.store.CreateCustomerType(ctx, name)
		if err != nil {
			return err
		}
		s.customerTypes[name] = id
	}
	for _, name := range f.DogCategories {
		id, err := s.store.CreateDogCategory(ctx, name)
		if err != nil {
			return err
		}
		s.categories[name] = id
	}
	return nil
}

func (s *Seeder) seedCustomers(ctx context.Context, f *Fixture, _ time.Time) error {
	for _, cf := range f.Customers {
		c := &repository.Customer{Name: cf.Name, Phone: cf.Phone, Email: cf.Email}
		if cf.Type != "" {
			id, ok := s.customerTypes[cf.Type]
			if !ok {
				return fmt.Errorf("客户类型 %s 不存在", cf.Type)
			}
			c.CustomerTypeID = &id
		}
		if err := s.store.CreateCustomer(ctx, c); err != nil {
			return err
		}
		s.customers[cf.Name] = c.ID

		for _, df := range cf.Dogs {
			d := &repository.Dog{CustomerID: c.ID, Name: df.Name, Breed: df.Breed}
			for _, name := range df.Categories {
				id, ok := s.categories[name]
				if !ok {
					return fmt.Errorf("狗狗分类 %s 不存在", name)
				}
				d.CategoryIDs = append(d.CategoryIDs, id)
			}
			if err := s.store.CreateDog(ctx, d); err != nil {
				return err
			}
			s.dogs[cf.Name+"/"+df.Name] = d.ID
		}
	}
	return nil
}

func (s *Seeder) seedAppointments(ctx context.Context, f *Fixture, today time.Time) error {
	for _, af := range f.Appointments {
		start, end, err := utils.ParseClockRange(af.Start, af.End)
		if err != nil {
			return err
		}
		day := s.day(today, af.Day)

		appt := &domain.Appointment{
			StationID: s.stations[af.Station],
			StartAt:   day.Add(start),
			EndAt:     day.Add(end),
		}

		if af.Personal != "" {
			appt.IsPersonal = true
			appt.PersonalName = af.Personal
			appt.Description = af.Description
			if err := s.store.CreatePersonalAppointment(ctx, appt); err != nil {
				return err
			}
			continue
		}

		customerID, dogID, err := s.resolveDog(af.Customer, af.Dog)
		if err != nil {
			return err
		}
		appt.CustomerID = &customerID
		appt.IsTrial = af.IsTrial
		if af.HourSelection != "" {
			hs := af.HourSelection
			appt.HourSelection = &hs
		}
		if err := s.store.CreateCustomerAppointment(ctx, appt, &dogID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedWaitlist(ctx context.Context, f *Fixture, today time.Time) error {
	for _, wf := range f.Waitlist {
		customerID, dogID, err := s.resolveDog(wf.Customer, wf.Dog)
		if err != nil {
			return err
		}

		e := &domain.WaitlistEntry{
			CustomerID: customerID,
			DogID:      dogID,
			Scope:      domain.WaitlistScope(wf.Scope),
			Notes:      wf.Notes,
		}
		for _, sf := range wf.Spans {
			span := domain.DateSpan{Start: s.day(today, sf.From)}
			if sf.To != nil {
				end := s.day(today, *sf.To)
				span.End = &end
			}
			e.DateSpans = append(e.DateSpans, span)
		}

		if err := s.store.CreateWaitlistEntry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// seedStationConfigs 没有在文件中出现的星期默认显示全部工位
func (s *Seeder) seedStationConfigs(ctx context.Context, f *Fixture, _ time.Time) error {
	all := make([]string, 0, len(f.Stations))
	for _, st := range f.Stations {
		all = append(all, s.stations[st.Name])
	}

	configs := make([]domain.StationDailyConfig, 0, len(domain.Weekdays))
	for _, d := range domain.Weekdays {
		configs = append(configs, domain.StationDailyConfig{Weekday: d, VisibleStationIDs: all, StationOrder: all})
	}

	for _, cf := range f.StationConfigs {
		visible, err := s.stationIDs(cf.Visible)
		if err != nil {
			return err
		}
		order, err := s.stationIDs(cf.Order)
		if err != nil {
			return err
		}
		for _, d := range cf.Weekdays {
			for i := range configs {
				if string(configs[i].Weekday) == d {
					configs[i] = domain.StationDailyConfig{Weekday: configs[i].Weekday, VisibleStationIDs: visible, StationOrder: order}
				}
			}
		}
	}

	week := stationconfig.NewWeek(configs)
	if err := week.Validate(); err != nil {
		return err
	}
	return s.store.SaveStationDailyConfigs(ctx, week.Configs())
}

func (s *Seeder) stationIDs(names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := s.stations[name]
		if !ok {
			return nil, fmt.Errorf("工位 %s 不存在", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Seeder) resolveDog(customer, dog string) (string, string, error) {
	customerID, ok := s.customers[customer]
	if !ok {
		return "", "", fmt.Errorf("客户 %s 不存在", customer)
	}
	dogID, ok := s.dogs[customer+"/"+dog]
	if !ok {
		return "", "", fmt.Errorf("客户 %s 没有名为 %s 的狗狗", customer, dog)
	}
	return customerID, dogID, nil
}

// day 返回 today 之后 offset 天的零点
func (s *Seeder) day(today time.Time, offset int) time.Time {
	t := today.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day()+offset, 0, 0, 0, 0, s.loc)
}
