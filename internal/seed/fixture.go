package seed

import (
	"fmt"
	"os"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/utils"
	"gopkg.in/yaml.v3"
)

// Fixture 是开发环境的初始数据，其中的引用都使用名称而不是 ID
type Fixture struct {
	Stations       []StationFixture       `yaml:"stations"`
	CustomerTypes  []string               `yaml:"customerTypes"`
	DogCategories  []string               `yaml:"dogCategories"`
	Customers      []CustomerFixture      `yaml:"customers"`
	Appointments   []AppointmentFixture   `yaml:"appointments"`
	Waitlist       []WaitlistFixture      `yaml:"waitlist"`
	StationConfigs []StationConfigFixture `yaml:"stationConfigs"`
}

type StationFixture struct {
	Name         string `yaml:"name"`
	ServiceType  string `yaml:"serviceType"`
	DisplayOrder int32  `yaml:"displayOrder"`
}

type CustomerFixture struct {
	Name  string       `yaml:"name"`
	Phone string       `yaml:"phone"`
	Email string       `yaml:"email"`
	Type  string       `yaml:"type"`
	Dogs  []DogFixture `yaml:"dogs"`
}

type DogFixture struct {
	Name       string   `yaml:"name"`
	Breed      string   `yaml:"breed"`
	Categories []string `yaml:"categories"`
}

// AppointmentFixture 中 Personal 不为空时表示内部预约，否则必须指定客户和狗狗
type AppointmentFixture struct {
	Station       string `yaml:"station"`
	Day           int    `yaml:"day"` // 相对导入当天的天数
	Start         string `yaml:"start"`
	End           string `yaml:"end"`
	Customer      string `yaml:"customer"`
	Dog           string `yaml:"dog"`
	Personal      string `yaml:"personal"`
	Description   string `yaml:"description"`
	HourSelection string `yaml:"hourSelection"`
	IsTrial       bool   `yaml:"isTrial"`
}

type WaitlistFixture struct {
	Customer string        `yaml:"customer"`
	Dog      string        `yaml:"dog"`
	Scope    string        `yaml:"scope"`
	Notes    string        `yaml:"notes"`
	Spans    []SpanFixture `yaml:"spans"`
}

type SpanFixture struct {
	From int  `yaml:"from"`
	To   *int `yaml:"to"`
}

type StationConfigFixture struct {
	Weekdays []string `yaml:"weekdays"`
	Visible  []string `yaml:"visible"`
	Order    []string `yaml:"order"`
}

func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (*Fixture, error) {
	f := &Fixture{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate 只检查文件内部的一致性，名称引用在导入时解析
func (f *Fixture) Validate() error {
	stations := make(map[string]bool, len(f.Stations))
	for _, st := range f.Stations {
		if st.Name == "" {
			return fmt.Errorf("工位名称不能为空")
		}
		if st.ServiceType != string(domain.ServiceGrooming) && st.ServiceType != string(domain.ServiceDaycare) {
			return fmt.Errorf("工位 %s 的服务类型 %q 不合法", st.Name, st.ServiceType)
		}
		stations[st.Name] = true
	}

	for i, a := range f.Appointments {
		if !stations[a.Station] {
			return fmt.Errorf("第 %d 个预约的工位 %s 不存在", i+1, a.Station)
		}
		if _, _, err := utils.ParseClockRange(a.Start, a.End); err != nil {
			return fmt.Errorf("第 %d 个预约：%w", i+1, err)
		}
		if a.Personal == "" && (a.Customer == "" || a.Dog == "") {
			return fmt.Errorf("第 %d 个预约必须指定客户和狗狗", i+1)
		}
	}

	for i, w := range f.Waitlist {
		switch domain.WaitlistScope(w.Scope) {
		case domain.ScopeGrooming, domain.ScopeDaycare, domain.ScopeBoth:
		default:
			return fmt.Errorf("第 %d 个候补的服务范围 %q 不合法", i+1, w.Scope)
		}
		if len(w.Spans) == 0 {
			return fmt.Errorf("第 %d 个候补没有日期区间", i+1)
		}
		for _, s := range w.Spans {
			if err := utils.ValidateDaySpan(s.From, s.To); err != nil {
				return fmt.Errorf("第 %d 个候补：%w", i+1, err)
			}
		}
	}

	for _, c := range f.StationConfigs {
		for _, d := range c.Weekdays {
			if !domain.IsWeekday(d) {
				return fmt.Errorf("星期 %q 不合法", d)
			}
		}
		if err := utils.ValidateStationOrder(c.Visible, c.Order); err != nil {
			return err
		}
	}

	return nil
}
